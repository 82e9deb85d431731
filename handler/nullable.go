package handler

// Nullable represents an optional value that may or may not contain data.
//
// Middleware is responsible for populating values; handlers whose middleware
// contract guarantees presence can call Value() directly, while genuinely
// optional values should be read with HasValue() or TryValue().
type Nullable[T any] struct {
	value    T
	hasValue bool
}

// NewNullable creates a Nullable containing the given value.
func NewNullable[T any](value T) Nullable[T] {
	return Nullable[T]{
		value:    value,
		hasValue: true,
	}
}

// Nil returns an empty Nullable with no value.
func Nil[T any]() Nullable[T] {
	return Nullable[T]{
		hasValue: false,
	}
}

// HasValue returns true if the Nullable contains a value.
func (n Nullable[T]) HasValue() bool {
	return n.hasValue
}

// Value returns the contained value or panics if no value is present.
//
// The panic is recoverable and is caught by the router's recovery middleware;
// it indicates a middleware contract violation, not a runtime condition.
func (n Nullable[T]) Value() T {
	if !n.hasValue {
		panic("orgapi: attempted to access Nullable value when HasValue is false")
	}
	return n.value
}

// TryValue returns the contained value and a boolean indicating whether the value exists.
func (n Nullable[T]) TryValue() (T, bool) {
	return n.value, n.hasValue
}

// ValueOrDefault returns the value if present, otherwise the zero value for type T.
func (n Nullable[T]) ValueOrDefault() T {
	if n.hasValue {
		return n.value
	}
	var zero T
	return zero
}

// ValueOr returns the value if present, otherwise the provided default value.
func (n Nullable[T]) ValueOr(defaultValue T) T {
	if n.hasValue {
		return n.value
	}
	return defaultValue
}
