// Package classifier implements the risk scoring rules for decisions.
//
// Two independent paths: declarative scoring over caller-supplied emotional
// factors (used at record creation), and a free-text probe that scans a raw
// description against keyword tables. Both are pure; the keyword tables are
// data and can be overridden through configuration.
package classifier
