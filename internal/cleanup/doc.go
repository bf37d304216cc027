// Package cleanup turns raw aggregated line items into a deduplicated,
// consistently categorized estimate.
//
// Cleaner.Run applies nine passes in a fixed order:
//
//  1. basic clean (trim fields, collapse descriptions, drop unnamed items)
//  2. recategorize by trade keywords
//  3. dedupe (model-assisted when configured, otherwise local rules)
//  4. confidence priority among same category, room and name
//  5. fix totals (evaluate formulas, compute blanks)
//  6. apartment scope pruning
//  7. merge overlapping work within a category and room
//  8. cross-category duplicates within a room
//  9. cabinetry category merge
//
// Passes that group items emit them group by group in first-seen order, so
// output order is deterministic for a given input.
package cleanup
