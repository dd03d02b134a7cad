package core

import "crypto/subtle"

// Secret wraps a token or API key so it never ends up in logs.
// The value is not exposed through String(), GoString(), JSON or text marshaling.
//
//	token := NewSecret("eyJhbGciOi...")
//	fmt.Println(token)       // prints: [REDACTED]
//	fmt.Printf("%#v", token) // prints: core.Secret{[REDACTED]}
//	token.Expose()           // returns: "eyJhbGciOi..."
type Secret struct {
	value string
}

// NewSecret creates a new Secret from a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String returns a redacted placeholder.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString returns a redacted placeholder for %#v formatting.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON returns a redacted JSON string.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText returns a redacted text representation (covers YAML as well).
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Expose returns the actual value. Only call it where the value is sent to
// the platform, e.g. an Authorization header.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty returns true if the secret value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}

// Or returns s, or fallback when s is empty.
func (s Secret) Or(fallback Secret) Secret {
	if s.IsEmpty() {
		return fallback
	}
	return s
}
