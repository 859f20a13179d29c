package products

// Product is a catalog entry sold by the distributor. Unit is the default
// unit of measure offered on new invoice lines; Price is the current listed
// catalog price, not a historical transaction price.
type Product struct {
	ID         int64   `json:"id"`
	CategoryID int64   `json:"categoryId"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Price      float64 `json:"price"`
	IsActive   bool    `json:"isActive"`
}
