// Package render writes cleaned estimates as CSV and styled XLSX workbooks.
//
// Totals follow one rule everywhere: category totals are the sum of parsed
// item totals, the overall subtotal sums the categories, general conditions
// are a fixed rate of the subtotal, and the grand total adds the two.
package render
