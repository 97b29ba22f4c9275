// Package app contains the core application logic. It wires the HCL loader,
// the component catalog, the construction pool and a construction strategy
// together, decoupled from any specific entrypoint like a CLI.
package app
