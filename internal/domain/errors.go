package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("cantidad inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("existencias insuficientes en el almacén")
	ErrLockedItem         = errors.New("el renglón está bloqueado")
	ErrOutOfOrderDeletion = errors.New("solo puede eliminarse el último corte del contratista")

	// ErrConsistency indica una escritura parcial detectada: un lote quedaría con
	// issued > quantity o un asiento sin su contraparte. Nunca se ignora; la
	// transacción completa se revierte.
	ErrConsistency = errors.New("inconsistencia entre lotes y libro de almacén")
)
