// Package pricing loads the internal price references that steer estimation:
// the master pricing catalog, the section minimums and margins sheet, and
// sample scope tables.
//
// The section minimums sheet defines which trade sections an estimate may
// use. CheckSections compares estimate categories against that set and
// suggests the closest valid section for anything unrecognized.
package pricing
