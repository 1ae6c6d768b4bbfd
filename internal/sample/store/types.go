// Package store holds the order graph of the shop front, the source side of the
// sample catalogue.
package store

import (
	"github.com/google/uuid"
)

// Product represents an individual item available for sale.
// Prices are in cents to avoid floating-point errors.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Inventory   int       `json:"inventory_count"`
}

// Address is a postal address of a customer.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer represents the user placing orders. Orders point back to the customer.
type Customer struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Address  *Address  `json:"address"`
	IsActive bool      `json:"is_active"`
	Orders   []*Order  `json:"-"`
}

// Order represents a transaction made by a customer.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	Number    int64       `json:"number"`
	Customer  *Customer   `json:"customer"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	Payment   Payment     `json:"payment"`
	OrderedAt string      `json:"ordered_at"` // YYYY-MM-DD
	Notes     string      `json:"notes,omitempty"`
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	Product   *Product `json:"product"`
	Quantity  string   `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusRefunded  OrderStatus = "REFUNDED"
)

// Payment is how an order was paid.
type Payment interface {
	Cents() int64
}

// Card is a card payment.
type Card struct {
	Holder     string `json:"holder"`
	Last4      string `json:"last4"`
	AmountDue  int64  `json:"amount_due"`
	Authorized bool   `json:"authorized"`
}

// Transfer is a bank transfer.
type Transfer struct {
	IBAN      string `json:"iban"`
	Reference string `json:"reference"`
	AmountDue int64  `json:"amount_due"`
}

func (c Card) Cents() int64     { return c.AmountDue }
func (t Transfer) Cents() int64 { return t.AmountDue }
