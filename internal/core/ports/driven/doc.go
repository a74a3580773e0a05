// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialStore: Single-record calendar credential persistence
//   - OAuthClient: Authorization URL building, code exchange, token refresh
//   - CallbackListener: Loopback HTTP listener for the OAuth redirect
//   - BrowserOpener: Opens the authorization URL in the user's browser
//   - TaskStore: Task persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
