// Package memory provides in-memory implementations of the driven store
// ports for testing.
package memory
