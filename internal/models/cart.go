package models

// CartItem references a product in a specific store. Carts live on the
// device only and are never synced to the cloud.
type CartItem struct {
	ProductID string  `json:"product_id"`
	StoreID   string  `json:"store_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}
