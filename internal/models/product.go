package models

// Product represents a product in the catalog.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Price       float64 `json:"price" gorm:"not null"`
	Category    string  `json:"category" gorm:"type:varchar(255);not null"`
	InStock     bool    `json:"inStock" gorm:"not null"`
}

// ProductInput is the body of a create request. Every field is nullable so
// that a missing field and a field of the wrong JSON type look the same: nil.
type ProductInput struct {
	Name        *string  `json:"name" validate:"required,min=1"`
	Description *string  `json:"description" validate:"required,min=1"`
	Price       *float64 `json:"price" validate:"required"`
	Category    *string  `json:"category" validate:"required,min=1"`
	InStock     *bool    `json:"inStock" validate:"required"`
}

// NewProductInput narrows a decoded JSON object to a ProductInput. Values of
// the wrong JSON type are left nil.
func NewProductInput(fields map[string]any) ProductInput {
	var in ProductInput
	if v, ok := fields["name"].(string); ok {
		in.Name = &v
	}
	if v, ok := fields["description"].(string); ok {
		in.Description = &v
	}
	if v, ok := fields["price"].(float64); ok {
		in.Price = &v
	}
	if v, ok := fields["category"].(string); ok {
		in.Category = &v
	}
	if v, ok := fields["inStock"].(bool); ok {
		in.InStock = &v
	}
	return in
}

// Product returns the product described by a validated input. It panics on
// an input that has not passed validation.
func (in ProductInput) Product() *Product {
	return &Product{
		Name:        *in.Name,
		Description: *in.Description,
		Price:       *in.Price,
		Category:    *in.Category,
		InStock:     *in.InStock,
	}
}
