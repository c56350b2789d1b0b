package repository

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// CategoryWithCount categoría con el número de productos asociados.
type CategoryWithCount struct {
	Category     *entity.Category
	ProductCount int
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// List ordenado por nombre.
	List(ctx context.Context) ([]*CategoryWithCount, error)
	CountProducts(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
