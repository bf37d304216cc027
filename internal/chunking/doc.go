// Package chunking splits long source text into bounded pieces and packs those
// pieces into token-budgeted groups for estimation requests.
//
// Two split strategies exist. The transcript strategy cuts at the last
// sentence or paragraph ending past 70% of a window and overlaps consecutive
// chunks. The takeoff strategy scans backward from the window edge for
// sentence punctuation, then for a newline, and never overlaps. Window sizes
// approximate tokens as four characters.
package chunking
