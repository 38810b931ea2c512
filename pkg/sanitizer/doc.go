// Package sanitizer normalizes user supplied space data before validation and storage.
//
// All functions are idempotent and handle invalid input by returning empty values rather
// than errors; the validator reports what is missing afterwards.
//
// Normalization includes:
//   - Phone numbers: E.164 format (+[country][number])
//   - Strings: collapse whitespace, trim leading/trailing spaces
//   - Tags: lowercase, collapsed whitespace
//   - Slices: drop duplicates and empty values after normalization
//   - Numbers: clamp to valid ranges
package sanitizer
