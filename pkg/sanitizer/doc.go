// Package sanitizer normalizes user input before it is validated or sent to
// the booking API.
//
// All functions are idempotent and never fail: invalid input yields an empty
// string or an empty slice.
//
// Normalization includes:
//   - Names: collapse whitespace, trim leading/trailing spaces
//   - Search queries: names plus lower case, used as cache keys
//   - PAN numbers: upper case with spaces removed
//   - Slices: trim, drop empty values and duplicates
//   - Numbers: clamp to a range
package sanitizer
