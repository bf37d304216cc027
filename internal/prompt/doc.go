// Package prompt assembles the system and user messages for estimation
// requests and classifies model responses.
//
// A request carries the transcript group text, the estimation instructions,
// optional markdown reference tables and three numbered file attachments
// (master pricing, scan measurements, transcript text). Groups dominated by
// permit, insurance or legal talk get an extra instruction steering the model
// toward physical scope, and refusals trigger a single forceful retry.
package prompt
