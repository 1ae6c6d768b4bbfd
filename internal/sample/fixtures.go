package sample

import (
	"github.com/google/uuid"

	"struct-mapper/internal/sample/store"
)

// namespace derives stable fixture identifiers.
var namespace = uuid.MustParse("6f2b5c8e-1d4a-4e8b-9a57-3c0d2f1e7b90")

func id(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(name))
}

// Orders returns the orders of one customer. Every order points back to the
// customer and the customer lists every order.
func Orders() []*store.Order {
	keyboard := &store.Product{ID: id("product/kb-01"), SKU: "KB-01", Name: "Keyboard", PriceCents: 4900, Inventory: 12}
	mouse := &store.Product{ID: id("product/ms-02"), SKU: "MS-02", Name: "Mouse", PriceCents: 1900, Inventory: 40}
	cable := &store.Product{ID: id("product/cb-03"), SKU: "CB-03", Name: "USB cable", PriceCents: 500, Inventory: 0}

	ada := &store.Customer{
		ID:       id("customer/ada"),
		Email:    "ada@example.com",
		FullName: "Ada Lovelace",
		Address:  &store.Address{Street: "12 St James's Square", City: "London", PostalCode: "SW1Y 4JH", Country: "GB"},
		IsActive: true,
	}

	orders := []*store.Order{
		{
			ID:       id("order/1001"),
			Number:   1001,
			Customer: ada,
			Status:   store.StatusPaid,
			Items: []store.OrderItem{
				{Product: mouse, Quantity: "2", UnitPrice: mouse.PriceCents},
				{Product: keyboard, Quantity: "1", UnitPrice: keyboard.PriceCents},
				{Product: cable, Quantity: "0", UnitPrice: cable.PriceCents},
			},
			Payment:   store.Card{Holder: "A LOVELACE", Last4: "4242", AmountDue: 8700, Authorized: true},
			OrderedAt: "2024-03-18",
		},
		{
			ID:        id("order/1002"),
			Number:    1002,
			Customer:  ada,
			Status:    store.StatusShipped,
			Items:     []store.OrderItem{{Product: cable, Quantity: " 3 ", UnitPrice: 450}},
			Payment:   &store.Transfer{IBAN: "GB33BUKB20201555555555", Reference: "1002", AmountDue: 1350},
			OrderedAt: "2024-04-02",
			Notes:     "leave at the door",
		},
	}

	ada.Orders = orders

	return orders
}
