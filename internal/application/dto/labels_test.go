package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/domain/entity"
)

func TestLabels_CubreTodosLosEnums(t *testing.T) {
	l := dto.Labels()
	assert.Len(t, l.MovementTypes, len(entity.MovementTypes))
	assert.Len(t, l.OrderStatuses, len(entity.OrderStatuses))
	assert.Len(t, l.InvoiceStatuses, len(entity.InvoiceStatuses))
	assert.Len(t, l.PaymentMethods, len(entity.PaymentMethods))
	assert.Equal(t, dto.LabelDTO{Code: "IN_PROGRESS", Label: "In Progress"}, l.OrderStatuses[1])
}

func TestLabels_CodigoDesconocidoEnFormatoTitulo(t *testing.T) {
	assert.Equal(t, "Bank Transfer", dto.PaymentMethodLabel(entity.PaymentBankTransfer))
	assert.Equal(t, "Partially Shipped", dto.OrderStatusLabel(entity.OrderStatus("PARTIALLY_SHIPPED")))
}

func TestDefaultPage(t *testing.T) {
	p := dto.PageRequest{Offset: -3}
	p.DefaultPage(0)
	assert.Equal(t, dto.DefaultLimit, p.Limit)
	assert.Zero(t, p.Offset)

	p = dto.PageRequest{Limit: 7}
	p.DefaultPage(15)
	assert.Equal(t, 7, p.Limit)
}
