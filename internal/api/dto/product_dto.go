package dto

// ProductRequest payload for product create and edit.
type ProductRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	Price             int64   `json:"price"`
	QuantityAvailable int     `json:"quantity_available"`
	CategoryID        *string `json:"category_id"`
}

// CategoryRequest payload for category create and edit.
type CategoryRequest struct {
	Name string `json:"name"`
}

// ManyProductsRequest lists product ids to fetch in one call.
type ManyProductsRequest struct {
	ProductIDs []string `json:"productIds"`
}
