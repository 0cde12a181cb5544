package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists   = errors.New("el email ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrAuthRequired         = errors.New("se requiere iniciar sesión")
	ErrInvalidTransition    = errors.New("transición no permitida desde el estado actual")
	ErrConfirmationRequired = errors.New("la operación requiere confirmación")
	ErrAttachmentTooLarge   = errors.New("el comprobante excede el tamaño máximo")
	ErrImageRequired        = errors.New("la habitación requiere una imagen")
	ErrProtectedUser        = errors.New("el usuario es administrador y no puede eliminarse")
	ErrUnsupportedProvider  = errors.New("proveedor de identidad no soportado")
)

// ValidationError campos requeridos ausentes o inválidos. Recuperable localmente.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campos requeridos: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// WriteError fallo del almacén durante una escritura (commit de reserva o mutación de admin).
// No se reintenta automáticamente.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("escritura %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// LoadError la carga masiva agotó los intentos. Los datos parciales se conservan.
type LoadError struct {
	Attempts int
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("carga incompleta tras %d intentos: %v", e.Attempts, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PermissionError acceso a la consola denegado. Err guarda la causa cuando la hay (ej. *ProbeFailure).
type PermissionError struct {
	Reason string
	Err    error
}

func (e *PermissionError) Error() string {
	return "acceso denegado: " + e.Reason
}

func (e *PermissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrForbidden}
	}
	return []error{ErrForbidden, e.Err}
}

// ProbeFailure la consulta de la lista de administradores falló.
// El guard la convierte en PermissionError.
type ProbeFailure struct {
	Err error
}

func (e *ProbeFailure) Error() string {
	return fmt.Sprintf("verificación de administrador fallida: %v", e.Err)
}

func (e *ProbeFailure) Unwrap() error { return e.Err }

// NewValidationError devuelve nil si no hay campos, para poder usarse como retorno directo.
func NewValidationError(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
