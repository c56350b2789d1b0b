// Package numbering genera los números legibles de pedidos y facturas.
//
// Formato base: {PREFIJO}{AAAAMMDDHHMM}. El formato no es único por sí mismo;
// la unicidad la garantiza el índice único de la persistencia, que devuelve
// domain.ErrUniquenessConflict. Retry reintenta con un sufijo aleatorio.
package numbering

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
)

// Prefijos por tipo de documento.
const (
	OrderPrefix   = "ORD"
	InvoicePrefix = "INV"
)

// MaxAttempts intentos antes de devolver el conflicto al caller.
const MaxAttempts = 5

const timestampLayout = "200601021504"

// Generator produce números para un prefijo.
type Generator struct {
	prefix string
	now    func() time.Time
	suffix func() string
}

// New construye un generador. now puede ser nil (usa time.Now).
func New(prefix string, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{prefix: prefix, now: now, suffix: randomSuffix}
}

// OrderNumbers generador de números de pedido (ORD...).
func OrderNumbers(now func() time.Time) *Generator { return New(OrderPrefix, now) }

// InvoiceNumbers generador de números de factura (INV...).
func InvoiceNumbers(now func() time.Time) *Generator { return New(InvoicePrefix, now) }

// Next devuelve el número para el intento dado (0 = primer intento, sin sufijo).
func (g *Generator) Next(attempt int) string {
	base := g.prefix + g.now().Format(timestampLayout)
	if attempt == 0 {
		return base
	}
	return base + "-" + g.suffix()
}

// Retry invoca create con números nuevos mientras devuelva ErrUniquenessConflict.
// Si explicit no está vacío se usa tal cual en un único intento y el conflicto se reporta como ErrDuplicate.
func (g *Generator) Retry(explicit string, create func(number string) error) (string, error) {
	if explicit != "" {
		err := create(explicit)
		if errors.Is(err, domain.ErrUniquenessConflict) {
			return "", domain.ErrDuplicate
		}
		return explicit, err
	}
	var err error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		number := g.Next(attempt)
		err = create(number)
		if !errors.Is(err, domain.ErrUniquenessConflict) {
			return number, err
		}
	}
	return "", err
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
