package repository

import (
	"context"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client (DIP).
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	// List filtra por nombre o email si search no está vacío; ordenado por nombre.
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Client, int, error)
	Delete(ctx context.Context, id string) error
}
