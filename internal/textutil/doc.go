// Package textutil provides small text helpers for turning user-supplied
// values into filesystem-safe path segments.
package textutil
