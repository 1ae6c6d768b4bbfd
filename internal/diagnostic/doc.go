// Package diagnostic provides structured errors, warnings and infos produced
// while rule sets are resolved into mapping plans.
//
// Key capabilities:
//   - Configuration errors that reject a rule set
//   - Unmapped field warnings with ranked suggestions
//   - Explanations of the strategy chosen for a field
package diagnostic
