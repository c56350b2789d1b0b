//go:build integration

package lock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/inventario-pedidos/internal/domain"
	"github.com/jhoicas/inventario-pedidos/internal/infrastructure/lock"
	"github.com/jhoicas/inventario-pedidos/pkg/config"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

func newRedisAddr(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "no se pudo iniciar Redis")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisLocker_ExclusivoEntreInstancias(t *testing.T) {
	addr := newRedisAddr(t)
	ctx := context.Background()
	rdb, err := lock.NewRedisClient(ctx, config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	a := lock.NewRedisLocker(rdb, "test:", 5*time.Second, logger.Nop())
	b := lock.NewRedisLocker(rdb, "test:", 5*time.Second, logger.Nop())

	unlock, err := a.Acquire(ctx, "stock:p-1")
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = b.Acquire(short, "stock:p-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict) || errors.Is(err, context.DeadlineExceeded),
		"la segunda instancia no obtiene el bloqueo: %v", err)

	unlock()
	again, err := b.Acquire(ctx, "stock:p-1")
	require.NoError(t, err, "tras liberar, otra instancia lo obtiene")
	again()
}

func TestNewRedisClient_SinServidor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := lock.NewRedisClient(ctx, config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
