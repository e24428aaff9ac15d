// Package constants holds identifiers shared between configuration and infrastructure.
package constants

// Pub/Sub providers accepted in configuration.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Keys stored on the echo context by the auth and session middleware.
const (
	ContextKeyUserID    = "userID"
	ContextKeyRoles     = "roles"
	ContextKeySessionID = "sessionID"
)
