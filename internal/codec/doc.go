// Package codec encodes and decodes single tagged values against a stream
// buffer.
//
// Ownership boundary:
// - the closed Tag set and text label parsing
// - per-tag encode/decode routines
// - the arity-checked append entry point used by host adapters
//
// Text labels are parsed into a Tag once, at the boundary. Dispatch inside the
// package switches over the enum.
package codec
