// Package domain defines the core business entities for taskdeck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Task: A tracked task with its status lifecycle
//   - CalendarCredentials: The single Google credential record
//   - AuthSession: Transient state of one authorization attempt
//   - CallbackResult: Parsed outcome of the OAuth redirect callback
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
