// Package catalog holds the static per-grade topic lists offered during
// intake. Leaf data with no pipeline dependencies.
package catalog
