package domain

import "time"

// Wishlist is a named list of products a user keeps.
type Wishlist struct {
	ID        string           `json:"id"`
	TenantID  string           `json:"tenant_id"`
	UserID    string           `json:"user_id"`
	Name      string           `json:"name"`
	Details   []WishlistDetail `json:"details,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// WishlistDetail links one product to a wishlist.
type WishlistDetail struct {
	ID         string    `json:"id"`
	WishlistID string    `json:"wishlist_id"`
	ProductID  string    `json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// OwnedBy reports whether userID owns the wishlist.
func (w *Wishlist) OwnedBy(userID string) bool {
	return w != nil && userID != "" && w.UserID == userID
}
