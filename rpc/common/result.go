package common

// --------------------------------------------------------------------------
// Result Union
// --------------------------------------------------------------------------

// Result is the discriminated success/failure union carried as a call's
// response payload. Both arms serialize identically as part of one value, so
// the wire format makes no distinction between a successful and a failed
// call; the receiving side simply deserializes the union and unpacks it.
//
// A nil Err means success. The application error travels as a GenericError
// projection, preserving its message text and cause chain.
type Result[T any] struct {
	Value T             `json:"value"`
	Err   *GenericError `json:"err,omitempty"`
}

// Ok creates a successful Result carrying the given value.
func Ok[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

// Fail creates a failed Result carrying the projection of the given error.
// A nil error yields a successful Result.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: ToGenericError(err)}
}

// Unpack splits the union back into Go's (value, error) convention.
func (r Result[T]) Unpack() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}
	return r.Value, nil
}
