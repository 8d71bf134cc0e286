package model

// Optional is a field of a partial update that distinguishes "not provided"
// from "set to null". The zero value is not provided.
type Optional[T any] struct {
	set   bool
	value *T
}

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: &v}
}

// Null returns an Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// FromPtr returns Null for nil and Set(*p) otherwise.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Null[T]()
	}
	return Set(*p)
}

// IsSet reports whether the field was provided, either as a value or as null.
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the field was explicitly set to null.
func (o Optional[T]) IsNull() bool { return o.set && o.value == nil }

// Ptr returns the value, or nil when unset or null.
func (o Optional[T]) Ptr() *T { return o.value }
