package entity

import "time"

// Client cliente que realiza pedidos.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
