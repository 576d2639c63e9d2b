package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation input rejected before any call to the data service
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAmount the price is not a finite, non-negative number
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

	// ErrMissingReference a product or store id was not given
	ErrMissingReference = fmt.Errorf("%w: missing reference", ErrValidation)

	// ErrUnknownCategory the category is not in entity.Categories
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrValidation)

	// ErrSubmissionInFlight a price submission for the session is still pending
	ErrSubmissionInFlight = errors.New("price submission already in progress")

	// ErrSaveInFlight a category save for the session is still pending
	ErrSaveInFlight = errors.New("category save already in progress")

	// ErrNoGenericProduct the product is not linked to a generic product
	ErrNoGenericProduct = errors.New("generic product not found")

	// ErrSuggestionsDisabled no category suggester is configured
	ErrSuggestionsDisabled = errors.New("category suggestions are disabled")
)
