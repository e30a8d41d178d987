package contract

import "errors"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrNotFound           = errors.New("not found")
	ErrItemResolution     = errors.New("selected item no longer resolves")
	ErrMixedCurrency      = errors.New("selected items use different currencies")
	ErrDocumentGeneration = errors.New("document generation failed")
	ErrValidation         = errors.New("validation failed")
)
