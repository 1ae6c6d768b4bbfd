// Package match ranks source fields as candidates for an unassigned destination field.
// The ranking feeds the suggestions attached to unmapped field diagnostics.
//
// Names are compared by edit distance after folding case and separators, types by
// how directly a source value can be stored in the destination.
package match
