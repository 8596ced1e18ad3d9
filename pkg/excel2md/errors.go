package excel2md

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ConversionError represents an error during conversion of one sheet.
type ConversionError struct {
	Sheet string
	Stage string // "print_areas", "detect", "extract", "classify", "render", "shapes"
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion error in sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(sheet, stage string, err error) *ConversionError {
	return &ConversionError{Sheet: sheet, Stage: stage, Err: err}
}
