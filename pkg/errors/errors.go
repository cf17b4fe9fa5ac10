package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Fields carries
// per-field validation messages when the failure is input-related.
type Error struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Fields  map[string][]string `json:"fields,omitempty"`
	Err     error               `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios. Messages are the literal detail
// strings the API returns, hence Spanish.
var (
	ErrCredencialesInvalidas = New("CREDENCIALES_INVALIDAS", http.StatusUnauthorized, "Credenciales inválidas")
	ErrCuentaPendiente       = New("CUENTA_PENDIENTE", http.StatusBadRequest, "Tu cuenta está pendiente de aprobación. Un administrador debe aprobar tu registro antes de poder iniciar sesión.")
	ErrNoEncontrado          = New("NO_ENCONTRADO", http.StatusNotFound, "Recurso no encontrado")
	ErrProhibido             = New("PROHIBIDO", http.StatusForbidden, "No tiene permisos para realizar esta acción")
	ErrNoAutenticado         = New("NO_AUTENTICADO", http.StatusUnauthorized, "Autenticación requerida")
	// Uniqueness and capacity conflicts surface as 400 with a descriptive
	// detail, not 409, matching the API contract the client depends on.
	ErrConflicto  = New("CONFLICTO", http.StatusBadRequest, "Conflicto")
	ErrValidacion = New("VALIDACION", http.StatusBadRequest, "Datos inválidos")
	ErrInterno    = New("ERROR_INTERNO", http.StatusInternalServerError, "Error interno del servidor")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInterno.Code, ErrInterno.Status, ErrInterno.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithFields returns a copy of the error carrying field-keyed messages.
func WithFields(err *Error, fields map[string][]string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Fields = fields
	return &clone
}

// FieldError builds a validation error for a single field.
func FieldError(campo, mensaje string) *Error {
	return WithFields(Clone(ErrValidacion, mensaje), map[string][]string{campo: {mensaje}})
}
