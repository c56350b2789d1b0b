package ports

import (
	"context"
	"sort"
)

// Unlock libera un bloqueo obtenido con Locker.Acquire. Es seguro llamarla una sola vez.
type Unlock func()

// Locker define el puerto de salida para bloqueos exclusivos por clave.
// Siguiendo DIP, la aplicación solo conoce este contrato; el adaptador puede ser
// Redis (varias instancias) o un mutex en proceso (una instancia, tests).
// Acquire espera hasta obtener el bloqueo o hasta que ctx se cancele.
type Locker interface {
	Acquire(ctx context.Context, key string) (Unlock, error)
}

// Claves de bloqueo por entidad.
func StockKey(productID string) string { return "stock:" + productID }
func InvoiceKey(invoiceID string) string { return "invoice:" + invoiceID }
func OrderKey(orderID string) string { return "order:" + orderID }

// AcquireAll obtiene varios bloqueos en orden lexicográfico (evita interbloqueos)
// y devuelve una única función que los libera en orden inverso.
// Si alguno falla, libera los ya obtenidos.
func AcquireAll(ctx context.Context, l Locker, keys ...string) (Unlock, error) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	held := make([]Unlock, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
	var prev string
	for i, k := range sorted {
		if i > 0 && k == prev {
			continue
		}
		prev = k
		unlock, err := l.Acquire(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		held = append(held, unlock)
	}
	return release, nil
}
