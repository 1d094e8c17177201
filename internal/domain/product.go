package domain

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       Money  `json:"price"`
	Stock       int    `json:"stock"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description,omitempty"`
	ImageRef    string `json:"image_ref,omitempty"`
}

// Validate checks the catalog invariants: identified, named, non-negative price and stock.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return NewValidationError("product id is empty")
	case p.Name == "":
		return NewValidationError("product[%s] name is empty", p.ID)
	case p.Price.IsNegative():
		return NewValidationError("product[%s] price is negative", p.ID)
	case p.Stock < 0:
		return NewValidationError("product[%s] stock is negative", p.ID)
	}

	return nil
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
