// Package chip holds the static parameter table for supported STM32 parts
// and resolves free-form chip names to table entries.
//
// Resolution never fails: real-world part numbers carry package and
// temperature-grade suffixes (T6, U6, ...) that no finite table can
// enumerate, so the resolver falls through a cascade of match strategies
// and, as a last resort, returns a documented default. Flash/RAM
// differences between same-prefix variants are rare, which makes the
// wrong-variant-same-family risk of the looser strategies acceptable.
package chip
