package dto

import (
	"fmt"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=200"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DateLayout formato de fecha de negocio usado en requests y responses.
const DateLayout = "2006-01-02"

// ParseDate interpreta una fecha "2006-01-02" (acepta también RFC3339 por
// compatibilidad con clientes que mandan timestamps completos).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Truncate(24 * time.Hour), nil
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %q", s)
}

// FormatDate serializa una fecha de negocio.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
