// Package lock implementa el puerto ports.Locker.
package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-pedidos/internal/application/ports"
)

var _ ports.Locker = (*LocalLocker)(nil)

// LocalLocker bloqueo exclusivo por clave dentro del proceso.
// Sirve para una sola instancia de la API y para los tests.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int // poseedor + en espera
}

// NewLocalLocker construye el bloqueo en proceso.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*keyLock)}
}

// Acquire espera el bloqueo de key o hasta que ctx termine.
func (l *LocalLocker) Acquire(ctx context.Context, key string) (ports.Unlock, error) {
	l.mu.Lock()
	kl, ok := l.keys[key]
	if !ok {
		kl = &keyLock{sem: make(chan struct{}, 1)}
		l.keys[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl, false)
		return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, kl, true) })
	}, nil
}

func (l *LocalLocker) release(key string, kl *keyLock, held bool) {
	if held {
		<-kl.sem
	}
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.keys, key)
	}
	l.mu.Unlock()
}
