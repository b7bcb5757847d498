package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers los traducen a códigos HTTP.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Error asocia un mensaje legible a uno de los tipos de error de arriba.
// errors.Is(err, ErrForbidden) sigue funcionando a través de Unwrap.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError construye un error tipado con mensaje.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Message devuelve el mensaje legible de err (el de Error si lo es, si no err.Error()).
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

func NotFound(msg string) error     { return NewError(ErrNotFound, msg) }
func Forbidden(msg string) error    { return NewError(ErrForbidden, msg) }
func Conflict(msg string) error     { return NewError(ErrConflict, msg) }
func InvalidInput(msg string) error { return NewError(ErrInvalidInput, msg) }
