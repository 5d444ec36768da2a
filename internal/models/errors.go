package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrNotFound = errors.New("record not found")
)

// UpstreamError represents a failed call to one of the data providers
type UpstreamError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error from %s: %s", e.Provider, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// MalformedRecordError represents a provider record whose required field
// could not be parsed, e.g. the bookmaker's embedded track/race string
type MalformedRecordError struct {
	Provider string
	Field    string
	Value    string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record: field %s with value %q", e.Provider, e.Field, e.Value)
}

// StoreError represents a failed query against the performance store
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("performance store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(provider, message string, cause error) *UpstreamError {
	return &UpstreamError{
		Provider: provider,
		Message:  message,
		Cause:    cause,
	}
}

// NewMalformedRecordError creates a new malformed record error
func NewMalformedRecordError(provider, field, value string) *MalformedRecordError {
	return &MalformedRecordError{
		Provider: provider,
		Field:    field,
		Value:    value,
	}
}

// NewStoreError creates a new store error
func NewStoreError(message string, cause error) *StoreError {
	return &StoreError{
		Message: message,
		Cause:   cause,
	}
}
