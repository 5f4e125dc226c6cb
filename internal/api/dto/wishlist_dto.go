package dto

// WishlistRequest payload for wishlist create and rename.
type WishlistRequest struct {
	Name string `json:"name"`
}

// AddWishlistProductRequest payload for POST /wishlist/add.
type AddWishlistProductRequest struct {
	WishlistID string `json:"wishlist_id"`
	ProductID  string `json:"product_id"`
}

// RemoveWishlistProductRequest payload for DELETE /wishlist/remove. ID names the wishlist entry.
type RemoveWishlistProductRequest struct {
	ID string `json:"id"`
}
