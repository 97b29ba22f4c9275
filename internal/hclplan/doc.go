// Package hclplan implements a construction strategy that does not build
// anything. It records every instantiation as an `instance` block of an HCL
// file and returns expressions referring to those blocks, so a whole
// dependency tree renders as a readable plan.
package hclplan
