package parser

import "fmt"

// ParseError reports a required field missing from a product page.
type ParseError struct {
	ProductID string
	Field     string
	Err       error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse product %s: field %q: %v", e.ProductID, e.Field, e.Err)
	}
	return fmt.Sprintf("parse product %s: required field %q is missing", e.ProductID, e.Field)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
