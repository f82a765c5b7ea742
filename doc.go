// Package oneshot provides the computations behind the OneShot tools.
//
// The core is the tax split optimizer: given a total income, it finds how to
// allocate it between an individual and a Small Business Corporation (SBC) so
// that the sum of the taxes due under the two South African progressive
// schedules is as small as possible.
//
// The main building blocks are:
//   - Schedule: a progressive tax table made of brackets, with the two fixed
//     tables Individual and SBC.
//   - Optimizer: a coarse-to-fine grid search over the split, returning a
//     SplitResult.
//   - Money and Percent: exact amounts and rates, formatted for display.
//
// All values are immutable and computations are pure: there is no shared state
// and nothing is persisted. The statement converter client lives in the
// converter package, and this package serves as the foundation of the
// `oneshot` command-line tool.
package oneshot
