// Package dataprocessing implements the log-to-attendance derivation
// pipeline: reading badge swipe CSVs under heterogeneous encodings and
// column layouts, normalizing timestamps, resolving badge IDs to names,
// aggregating events into daily attendance records, and summarizing
// statistics over the record set.
//
// The pipeline is synchronous and stateless; each stage is a plain function
// or a small struct holding only configuration and a logger. Ownership of
// the produced record slice transfers to the caller, which treats it as
// immutable.
package dataprocessing
