// Package collection re-maps the elements of slices, arrays, maps and lazy
// sequences into a destination container shape.
package collection
