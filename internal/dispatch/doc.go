// Package dispatch selects the concrete rule for a value mapped through an
// abstraction pair, by testing its runtime type against the candidates in
// declaration order.
package dispatch
