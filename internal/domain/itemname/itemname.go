// Package itemname normaliza nombres de materiales para que el emparejamiento
// entre lotes, asientos del libro y materiales de contratista no falle por
// diferencias de composición Unicode o espacios duplicados.
package itemname

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize aplica NFC, recorta y colapsa espacios internos. Se usa al persistir
// y al comparar; dos nombres son el mismo material si sus formas normalizadas
// coinciden.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Equal compara dos nombres de material en forma normalizada.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
