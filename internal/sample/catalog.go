// Package sample is a small shop catalogue: rules mapping the store order graph
// into the warehouse model, plus fixtures to run them against.
package sample

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"struct-mapper/internal/sample/store"
	"struct-mapper/internal/sample/warehouse"
	"struct-mapper/options"
	"struct-mapper/primitive"
	"struct-mapper/rules"
)

// CurrencyKey is the context value naming the currency of mapped orders.
const CurrencyKey = "currency"

// DateFormat parses the calendar dates of the store.
var DateFormat = primitive.Invariant.Derive(primitive.Format{Name: "date", TimeLayout: time.DateOnly})

var ErrNoCustomer = errors.New("order has no customer")

// Rules builds the store to warehouse rule set. Payments are declared in a
// separate set and delegated.
func Rules() *rules.Set {
	set := rules.NewSet("shop", options.AllowConvertible, options.PreserveReferences)

	rules.Enum(set, map[string]store.OrderStatus{
		"Pending":   store.StatusPending,
		"Paid":      store.StatusPaid,
		"Shipped":   store.StatusShipped,
		"Cancelled": store.StatusCancelled,
		"Refunded":  store.StatusRefunded,
	})
	rules.Enum(set, map[string]warehouse.Status{
		"Unknown":   warehouse.StatusUnknown,
		"Pending":   warehouse.StatusPending,
		"Paid":      warehouse.StatusPaid,
		"Shipped":   warehouse.StatusShipped,
		"Cancelled": warehouse.StatusCancelled,
	})

	rules.NewFactory(set, newOrder)
	rules.PreProjection[store.OrderItem, *warehouse.OrderItem](set, skipEmptyLines)
	rules.PostProjection[store.OrderItem, *warehouse.OrderItem](set, sortLines)

	rules.Map[store.Address, warehouse.Address](set)

	rules.Map[store.Customer, warehouse.Customer](set,
		rules.ForMember("ID", CustomerID),
		rules.ForMember("FirstName", FirstName),
		rules.ForMember("LastName", LastName),
		rules.MapMember("Active", "IsActive"),
		rules.WithOptions(options.AllowConvertible|options.PreserveReferences|options.SuppressNullWarnings),
	)

	rules.Map[store.Order, warehouse.Order](set,
		rules.ForMember("ID", OrderID),
		rules.MapMember("OrderNumber", "Number"),
		rules.MapMember("PlacedAt", "OrderedAt"),
		rules.FormatProviderFor[string, time.Time](DateFormat),
		rules.Ignore("TotalAmount", "Currency"),
		rules.PreMap(requireCustomer),
		rules.PostMap(orderTotal),
	)

	rules.Map[store.OrderItem, warehouse.OrderItem](set,
		rules.ForMember("SKU", itemSKU),
		rules.ForMember("Name", itemName),
		rules.Ignore("TotalPrice"),
		rules.PostMap(lineTotal),
	)

	pay := payments()
	rules.Map[store.Payment, warehouse.Payment](set)
	rules.UseMap[store.Card, warehouse.CardPayment](set, pay)
	rules.UseMap[store.Transfer, warehouse.BankTransfer](set, pay)

	return set
}

func payments() *rules.Set {
	set := rules.NewSet("payments")
	rules.Map[store.Card, warehouse.CardPayment](set, rules.MapMember("Amount", "AmountDue"))
	rules.Map[store.Transfer, warehouse.BankTransfer](set, rules.MapMember("Amount", "AmountDue"))

	return set
}

// Registry names the sample types, transforms and formats for rule overlays.
func Registry() *rules.Registry {
	reg := rules.NewRegistry()

	rules.RegisterType[store.Address](reg)
	rules.RegisterType[store.Customer](reg)
	rules.RegisterType[store.Order](reg)
	rules.RegisterType[store.OrderItem](reg)
	rules.RegisterType[store.Product](reg)
	rules.RegisterType[warehouse.Address](reg)
	rules.RegisterType[warehouse.Customer](reg)
	rules.RegisterType[warehouse.Order](reg)
	rules.RegisterType[warehouse.OrderItem](reg)

	reg.AddTransform("customer_id", CustomerID)
	reg.AddTransform("first_name", FirstName)
	reg.AddTransform("last_name", LastName)
	reg.AddTransform("order_id", OrderID)

	reg.AddFormat(DateFormat)

	return reg
}

func CustomerID(c *store.Customer) string { return c.ID.String() }
func OrderID(o *store.Order) string       { return o.ID.String() }

// FirstName is the first word of the full name.
func FirstName(c *store.Customer) string {
	first, _, _ := strings.Cut(strings.TrimSpace(c.FullName), " ")
	return first
}

// LastName is everything after the first word, false when the name is a single word.
func LastName(c *store.Customer) (string, bool) {
	_, last, ok := strings.Cut(strings.TrimSpace(c.FullName), " ")
	return strings.TrimSpace(last), ok
}

func itemSKU(it *store.OrderItem) string {
	if it.Product == nil {
		return ""
	}

	return it.Product.SKU
}

func itemName(it *store.OrderItem) string {
	if it.Product == nil {
		return ""
	}

	return it.Product.Name
}

func newOrder(ctx rules.Context) *warehouse.Order {
	currency := "EUR"
	if v, ok := ctx.Values().Load(CurrencyKey); ok {
		currency = fmt.Sprint(v)
	}

	return &warehouse.Order{Currency: currency}
}

func requireCustomer(src *store.Order, _ *warehouse.Order, _ rules.Context) error {
	if src.Customer == nil {
		return fmt.Errorf("%w: %d", ErrNoCustomer, src.Number)
	}

	return nil
}

func lineTotal(_ *store.OrderItem, dst *warehouse.OrderItem, _ rules.Context) error {
	dst.TotalPrice = dst.UnitPrice * int64(dst.Quantity)
	return nil
}

func orderTotal(_ *store.Order, dst *warehouse.Order, _ rules.Context) error {
	dst.TotalAmount = 0
	for _, it := range dst.Items {
		dst.TotalAmount += it.TotalPrice
	}

	return nil
}

func skipEmptyLines(seq iter.Seq[store.OrderItem], _ rules.Context) iter.Seq[store.OrderItem] {
	return func(yield func(store.OrderItem) bool) {
		for it := range seq {
			if q := strings.TrimSpace(it.Quantity); q == "" || q == "0" {
				continue
			}

			if !yield(it) {
				return
			}
		}
	}
}

func sortLines(seq iter.Seq[*warehouse.OrderItem], _ rules.Context) iter.Seq[*warehouse.OrderItem] {
	return slices.Values(slices.SortedFunc(seq, func(a, b *warehouse.OrderItem) int {
		return cmp.Compare(a.SKU, b.SKU)
	}))
}
