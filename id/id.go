package id

import "github.com/rs/xid"

// Generate returns a new sortable identifier.
// Identifiers are safe to use as NATS subject tokens.
func Generate() string {
	return xid.New().String()
}

func Valid(s string) bool {
	id, err := xid.FromString(s)
	if err != nil {
		return false
	}
	return !id.IsNil() && !id.IsZero()
}

// ValidOptional reports whether s is either nil or a valid identifier.
func ValidOptional(s *string) bool {
	return s == nil || Valid(*s)
}
