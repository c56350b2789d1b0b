// Package memory implementa los puertos de persistencia en memoria.
// Replica las restricciones de unicidad y de claves foráneas del esquema PostgreSQL
// para que los casos de uso se comporten igual con ambos adaptadores.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
	"github.com/jhoicas/inventario-pedidos/internal/domain/repository"
)

type state struct {
	seq        int64
	rank       map[string]int64 // orden de inserción por ID, desempata listados
	products   map[string]entity.Product
	categories map[string]entity.Category
	movements  map[string]entity.StockMovement
	clients    map[string]entity.Client
	orders     map[string]entity.Order // sin Items
	items      map[string]entity.OrderItem
	invoices   map[string]entity.Invoice // sin Order
	payments   map[string]entity.Payment
	users      map[string]entity.User
}

func newState() *state {
	return &state{
		rank:       map[string]int64{},
		products:   map[string]entity.Product{},
		categories: map[string]entity.Category{},
		movements:  map[string]entity.StockMovement{},
		clients:    map[string]entity.Client{},
		orders:     map[string]entity.Order{},
		items:      map[string]entity.OrderItem{},
		invoices:   map[string]entity.Invoice{},
		payments:   map[string]entity.Payment{},
		users:      map[string]entity.User{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:        s.seq,
		rank:       cloneMap(s.rank),
		products:   cloneMap(s.products),
		categories: cloneMap(s.categories),
		movements:  cloneMap(s.movements),
		clients:    cloneMap(s.clients),
		orders:     cloneMap(s.orders),
		items:      cloneMap(s.items),
		invoices:   cloneMap(s.invoices),
		payments:   cloneMap(s.payments),
		users:      cloneMap(s.users),
	}
}

func (s *state) track(id string) {
	s.seq++
	s.rank[id] = s.seq
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store base de datos en memoria. Las transacciones son serializables:
// toman el mutex, trabajan sobre una copia del estado y la publican solo si fn no falla.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view acceso al estado: fuera de transacción toma el mutex en cada operación,
// dentro usa la copia de la transacción (el mutex ya está tomado).
type view struct {
	s  *Store
	tx *state
}

func (v view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func (s *Store) runTx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	if err := fn(view{s: s, tx: tx}); err != nil {
		return err
	}
	s.st = tx
	return nil
}

func (s *Store) root() view { return view{s: s} }

// Repositorios fuera de transacción. No usarlos dentro de un callback de Run*:
// el mutex no es reentrante.

func (s *Store) Products() repository.ProductRepository { return &ProductRepo{v: s.root()} }
func (s *Store) Categories() repository.CategoryRepository {
	return &CategoryRepo{v: s.root()}
}
func (s *Store) Movements() repository.StockMovementRepository {
	return &StockMovementRepo{v: s.root()}
}
func (s *Store) Clients() repository.ClientRepository       { return &ClientRepo{v: s.root()} }
func (s *Store) Orders() repository.OrderRepository         { return &OrderRepo{v: s.root()} }
func (s *Store) OrderItems() repository.OrderItemRepository { return &OrderItemRepo{v: s.root()} }
func (s *Store) Invoices() repository.InvoiceRepository     { return &InvoiceRepo{v: s.root()} }
func (s *Store) Payments() repository.PaymentRepository     { return &PaymentRepo{v: s.root()} }
func (s *Store) Users() repository.UserRepository           { return &UserRepo{v: s.root()} }
func (s *Store) Dashboard() repository.DashboardRepository  { return &DashboardRepo{v: s.root()} }

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&ProductRepo{v: v}, &StockMovementRepo{v: v})
	})
}

// RunOrders implementa orders.OrdersTxRunner.
func (s *Store) RunOrders(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&OrderRepo{v: v}, &OrderItemRepo{v: v}, &ProductRepo{v: v}, &StockMovementRepo{v: v}, &InvoiceRepo{v: v})
	})
}

// RunBilling implementa billing.BillingTxRunner.
func (s *Store) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&InvoiceRepo{v: v}, &PaymentRepo{v: v}, &OrderRepo{v: v}, &OrderItemRepo{v: v})
	})
}

// page aplica limit/offset sobre un listado ya ordenado. limit <= 0 = sin límite.
func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
