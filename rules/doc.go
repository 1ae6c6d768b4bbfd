// Package rules declares which type pairs are mappable and how.
//
// A Set collects rules in declaration order. Each rule names a source and a
// destination type and may carry ignored fields, member renames, custom field
// functions, pre/post hooks, option overrides and format providers. Sets can
// delegate individual pairs to other sets, register enum member tables,
// destination factories and collection projections.
//
// Sets are plain data: they are validated and turned into field assignment
// plans by the mapper package.
package rules
