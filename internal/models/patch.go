package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ProductPatch is the unchecked body of an update request. Only the keys
// present are written; unknown keys are ignored.
type ProductPatch map[string]any

// ProductChanges holds the coerced values of a ProductPatch. A nil field is
// left untouched.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	InStock     *bool
}

// Empty reports whether the changes touch no field.
func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Price == nil && c.Category == nil && c.InStock == nil
}

// Apply overwrites the fields of p that the changes carry.
func (c ProductChanges) Apply(p *Product) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.Price != nil {
		p.Price = *c.Price
	}
	if c.Category != nil {
		p.Category = *c.Category
	}
	if c.InStock != nil {
		p.InStock = *c.InStock
	}
}

// Coerce converts the patch to typed changes the way the store schema does:
// text fields take strings, numbers and booleans; price takes finite numbers
// and numeric strings; inStock takes booleans, "true"/"false" style strings
// and 0/1. Every field is required, so null or empty values are rejected.
func (p ProductPatch) Coerce() (ProductChanges, error) {
	var c ProductChanges
	var err error
	for key, value := range p {
		switch key {
		case "name":
			c.Name, err = coerceText(key, value)
		case "description":
			c.Description, err = coerceText(key, value)
		case "category":
			c.Category, err = coerceText(key, value)
		case "price":
			c.Price, err = coercePrice(value)
		case "inStock":
			c.InStock, err = coerceInStock(value)
		}
		if err != nil {
			return ProductChanges{}, err
		}
	}
	return c, nil
}

func coerceText(path string, value any) (*string, error) {
	if value == nil {
		return nil, requiredError(path)
	}
	if !isScalar(value) {
		return nil, castError("string", path, value)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, castError("string", path, value)
	}
	if s == "" {
		return nil, requiredError(path)
	}
	return &s, nil
}

func coercePrice(value any) (*float64, error) {
	if value == nil {
		return nil, requiredError("price")
	}
	if s, ok := value.(string); ok {
		// an empty string casts to null, which fails the required check
		if strings.TrimSpace(s) == "" {
			return nil, requiredError("price")
		}
		value = strings.TrimSpace(s)
	} else if !isScalar(value) {
		return nil, castError("Number", "price", value)
	}
	f, err := cast.ToFloat64E(value)
	// ParseFloat accepts "NaN" and "Inf"; neither can be stored or encoded
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, castError("Number", "price", value)
	}
	return &f, nil
}

// coerceInStock accepts true, "true", 1, "1", "yes" and their false
// counterparts. String matching is case sensitive.
func coerceInStock(value any) (*bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, requiredError("inStock")
	case bool:
		return &v, nil
	case string:
		var b bool
		switch v {
		case "":
			return nil, requiredError("inStock")
		case "true", "1", "yes":
			b = true
		case "false", "0", "no":
			b = false
		default:
			return nil, castError("Boolean", "inStock", value)
		}
		return &b, nil
	}
	if !isNumber(value) {
		return nil, castError("Boolean", "inStock", value)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil || (f != 0 && f != 1) {
		return nil, castError("Boolean", "inStock", value)
	}
	b := f == 1
	return &b, nil
}

// isNumber reports whether value is any Go integer or float type.
func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func isScalar(value any) bool {
	switch value.(type) {
	case string, bool:
		return true
	}
	return isNumber(value)
}

func requiredError(path string) error {
	return fmt.Errorf("%w: path %q is required", ErrInvalidField, path)
}

func castError(kind, path string, value any) error {
	return fmt.Errorf("%w: cast to %s failed for value %v (type %T) at path %q", ErrInvalidField, kind, value, value, path)
}
