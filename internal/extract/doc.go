// Package extract turns source documents into plain text.
//
// Sales-call transcripts arrive as PDF exports or JSON meeting-notes payloads;
// scan measurements and price lists usually arrive as PDFs or CSV files. The
// helpers here produce the text that chunking and prompt assembly consume.
// PDF support uses github.com/ledongthuc/pdf, which is pure Go.
package extract
