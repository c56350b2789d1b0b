package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
// Las ventas son la suma de pagos recibidos en el período.
type DashboardStatsDTO struct {
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	StockValue      decimal.Decimal `json:"stock_value"`
	TodayOrders     int             `json:"today_orders"`
	OrdersThisMonth int             `json:"orders_this_month"`
	TodaySales      decimal.Decimal `json:"today_sales"`
	MonthlySales    decimal.Decimal `json:"monthly_sales"`

	LowStockProducts []ProductResponse `json:"low_stock_products"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// MonthSalesDTO ventas de un mes.
type MonthSalesDTO struct {
	Month int             `json:"month"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// MonthlySalesDTO serie mensual de ventas de un año.
type MonthlySalesDTO struct {
	Year   int             `json:"year"`
	Months []MonthSalesDTO `json:"months"`
	Total  decimal.Decimal `json:"total"`
}
