// Package decision defines the decision record model and its file-backed store.
//
// One JSON file per record under <data_dir>/decisions, keyed by the decision
// ID. Writes go through a temp-file-and-rename path so readers never observe
// a half-written record, and read-modify-write cycles are serialized per ID.
package decision
