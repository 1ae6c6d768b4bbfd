// Package plan resolves mapping rules into Field Assignment Plans.
//
// Resolution pipeline:
//  1. Validate the rule set and its delegations (duplicate and invalid pairs)
//  2. Starting from every declaration, resolve each reachable rule once
//  3. For each destination field, first match wins:
//     - custom function, identity, nested rule, enum, collection, convertible cast
//     - otherwise the field stays unassigned, with ranked suggestions
//  4. Abstraction rules get a dispatch table instead of fields
//  5. Emit diagnostics: configuration errors reject the rule, warnings do not
package plan
