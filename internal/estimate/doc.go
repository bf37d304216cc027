// Package estimate defines the priced line item model and parses model
// responses and CSV files into items.
//
// Fields stay textual exactly as the model produced them ("120 SF", "$12.50",
// "35%"); numeric views are computed on demand so formatting quirks survive
// until the cleanup passes decide how to interpret them.
package estimate
