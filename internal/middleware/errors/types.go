package errors

import (
	"errors"
	"net/http"
)

// APIError interface for custom error types
type APIError interface {
	error
	Status() int
}

// AuthError authentication hatası için custom error type
type AuthError struct {
	Message    string
	StatusCode int
}

// Error AuthError'un error interface implementation'ı
func (e *AuthError) Error() string {
	return e.Message
}

// Status AuthError'un APIError interface implementation'ı
func (e *AuthError) Status() int {
	return e.StatusCode
}

// RBACError authorization hatası için custom error type
type RBACError struct {
	Message    string
	StatusCode int
	Resource   string
	Action     string
}

// Error RBACError'un error interface implementation'ı
func (e *RBACError) Error() string {
	return e.Message
}

// Status RBACError'un APIError interface implementation'ı
func (e *RBACError) Status() int {
	return e.StatusCode
}

// ValidationError validation hatası için custom error type
type ValidationError struct {
	Message    string
	StatusCode int
	Field      string
	Value      interface{}
}

// Error ValidationError'un error interface implementation'ı
func (e *ValidationError) Error() string {
	return e.Message
}

// Status ValidationError'un APIError interface implementation'ı
func (e *ValidationError) Status() int {
	return e.StatusCode
}

// NotFoundError kaynak bulunamadı hatası (404)
type NotFoundError struct {
	Message  string
	Resource string
}

// Error NotFoundError'un error interface implementation'ı
func (e *NotFoundError) Error() string {
	return e.Message
}

// Status NotFoundError'un APIError interface implementation'ı
func (e *NotFoundError) Status() int {
	return http.StatusNotFound
}

// ConflictError durum çakışması (409): tekrar çözülen talep, dolu kuyruk, kapalı portföy
type ConflictError struct {
	Message string
}

// Error ConflictError'un error interface implementation'ı
func (e *ConflictError) Error() string {
	return e.Message
}

// Status ConflictError'un APIError interface implementation'ı
func (e *ConflictError) Status() int {
	return http.StatusConflict
}

// DependencyError dış servis hatası (Telegram, fiyat servisi)
type DependencyError struct {
	Message    string
	Dependency string
	Err        error
}

// Error DependencyError'un error interface implementation'ı
func (e *DependencyError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap alttaki hatayı döner
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// Status DependencyError'un APIError interface implementation'ı
func (e *DependencyError) Status() int {
	return http.StatusInternalServerError
}

// NewValidationError 400 dönen validation hatası oluşturur
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Field:      field,
		Value:      value,
	}
}

// NewNotFoundError 404 hatası oluşturur
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Message: message, Resource: resource}
}

// NewConflictError 409 hatası oluşturur
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// NewDependencyError dış servis hatası oluşturur
func NewDependencyError(dependency, message string, err error) *DependencyError {
	return &DependencyError{Message: message, Dependency: dependency, Err: err}
}

// StatusOf hatanın HTTP status kodunu döner; APIError değilse 500
func StatusOf(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status()
	}
	return http.StatusInternalServerError
}
