package utility

// Outcome carries the result of a best-effort call. A failed Outcome still
// holds a usable Value (the safe default chosen by the producer) together
// with the reason it failed, so callers decide explicitly whether to show
// the error, the default, or both.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Success wraps a value produced without error.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Failure wraps the default value and the reason the call failed.
func Failure[T any](def T, err error) Outcome[T] {
	return Outcome[T]{Value: def, Err: err}
}

// Ok reports whether the call succeeded.
func (o Outcome[T]) Ok() bool {
	return o.Err == nil
}

// ValueOr returns the value on success and def otherwise.
func (o Outcome[T]) ValueOr(def T) T {
	if o.Err != nil {
		return def
	}
	return o.Value
}

// Reason returns the error text, or "" on success.
func (o Outcome[T]) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
