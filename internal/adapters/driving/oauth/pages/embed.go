// Package pages embeds the static HTML pages served to the browser tab
// at the end of an authorization attempt.
package pages

import _ "embed"

// Success is shown when a code was received and the state matched.
//
//go:embed success.html
var Success string

// Error is shown when the provider returned an error parameter or the
// callback was malformed.
//
//go:embed error.html
var Error string

// SecurityError is shown when the callback state did not match the one
// issued for this attempt.
//
//go:embed security_error.html
var SecurityError string
