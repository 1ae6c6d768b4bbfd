// Package warehouse holds the fulfilment model, the destination side of the
// sample catalogue.
package warehouse

import (
	"time"
)

// Address represents a shipping address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer represents a store customer.
type Customer struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Address   *Address `json:"address,omitempty"`
	Active    bool     `json:"active"`
	Segments  []string `json:"segments" mapper:"required"`
	Orders    []*Order `json:"-"`
}

// Order represents a customer's purchase.
type Order struct {
	ID          string       `json:"id"`
	OrderNumber string       `json:"order_number"`
	Status      Status       `json:"status"`
	TotalAmount int64        `json:"total_amount"` // in cents
	Currency    string       `json:"currency"`
	Customer    *Customer    `json:"customer"`
	Items       []*OrderItem `json:"items"`
	Payment     Payment      `json:"payment"`
	PlacedAt    time.Time    `json:"placed_at"`

	// Picker is assigned by the warehouse, never by the shop.
	Picker string `json:"picker,omitempty" mapper:"-"`
}

// OrderItem is a line item within an order.
type OrderItem struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`  // price at time of purchase (in cents)
	TotalPrice int64  `json:"total_price"` // UnitPrice * Quantity
}

// Status is the fulfilment state of an order.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusPaid
	StatusShipped
	StatusCancelled
)

var statusNames = [...]string{"unknown", "pending", "paid", "shipped", "cancelled"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}

	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Payment is a settled payment.
type Payment interface {
	Method() string
}

// CardPayment is a payment by card.
type CardPayment struct {
	Holder string `json:"holder"`
	Last4  string `json:"last4"`
	Amount int64  `json:"amount"`
}

// BankTransfer is a payment by bank transfer.
type BankTransfer struct {
	IBAN      string `json:"iban"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
}

func (*CardPayment) Method() string  { return "card" }
func (*BankTransfer) Method() string { return "transfer" }
