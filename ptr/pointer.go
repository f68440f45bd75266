package ptr

func From[T any](v T) *T {
	return &v
}

func Or[T any](v *T, defaultValue T) T {
	if v != nil {
		return *v
	}
	return defaultValue
}

// NonZero returns nil for the zero value of T.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
