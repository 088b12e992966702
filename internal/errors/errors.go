// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrDataUnavailable is returned when the provider yields zero bars.
	ErrDataUnavailable = errors.New("no price data available")
	// ErrFetchTimeout is returned when a provider fetch exceeds its bound.
	ErrFetchTimeout = errors.New("price data fetch timed out")
	// ErrSymbolNotFound is returned when the provider does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrTransient marks a provider failure worth retrying.
	ErrTransient = errors.New("transient provider error")
	// ErrConfigInvalid is returned for malformed configuration.
	ErrConfigInvalid = errors.New("invalid configuration")
)

// ValidationError represents a request validation error. Validation fails
// the whole request before any data is fetched.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ProviderError represents a failure fetching a price series. It carries the
// symbol and timeframe of the pipeline it aborted, leaving sibling timeframe
// pipelines unaffected.
type ProviderError struct {
	Symbol    string
	Timeframe string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error [%s %s]: %v", e.Symbol, e.Timeframe, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(symbol, timeframe string, err error) *ProviderError {
	return &ProviderError{
		Symbol:    symbol,
		Timeframe: timeframe,
		Err:       err,
	}
}

// SeriesError represents a malformed price series returned by a provider
// (duplicate or non-increasing timestamps).
type SeriesError struct {
	Symbol  string
	Index   int
	Message string
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("series error [%s] bar %d: %s", e.Symbol, e.Index, e.Message)
}

// NewSeriesError creates a new SeriesError.
func NewSeriesError(symbol string, index int, message string) *SeriesError {
	return &SeriesError{
		Symbol:  symbol,
		Index:   index,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
