package service

// TokenSource produces the opaque bearer tokens used for sessions and
// password resets. Tokens carry no meaning; they are only ever compared for
// equality against the stored value.
type TokenSource interface {
	// NewToken returns a fresh token with at least 128 bits of randomness.
	NewToken() string
}
