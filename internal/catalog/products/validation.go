package products

import (
	"errors"
	"strings"
)

func (s *Service) validate(p Product) error {
	if p.CategoryID <= 0 {
		return errors.New("product category is required")
	}
	if strings.TrimSpace(p.Code) == "" {
		return errors.New("product code is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if p.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	return nil
}
