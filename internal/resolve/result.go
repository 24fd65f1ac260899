package resolve

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrSourceUnavailable marks a failed live fetch: network, timeout,
	// non 2xx or malformed payload.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrNoData marks a live fetch that succeeded but returned nothing.
	ErrNoData = errors.New("source returned no data")
)

// Result is the outcome of a single live fetch.
type Result[T any] struct {
	Value T
	Err   error
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Fetch runs fn once and converts its outcome into a Result. Errors are
// wrapped with ErrSourceUnavailable, empty values become ErrNoData and a
// panic inside fn is reported as an unavailable source.
func Fetch[T any](name string, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Result[T]{Err: fmt.Errorf("%s: %w: panic: %v", name, ErrSourceUnavailable, p)}
		}
	}()

	v, err := fn()
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrNoData) {
			return Result[T]{Err: fmt.Errorf("%s: %w", name, err)}
		}
		return Result[T]{Err: fmt.Errorf("%s: %w: %w", name, ErrSourceUnavailable, err)}
	}
	if isEmpty(v) {
		return Result[T]{Err: fmt.Errorf("%s: %w", name, ErrNoData)}
	}
	return Result[T]{Value: v}
}

// isEmpty reports nil pointers, interfaces and funcs, and zero length
// slices, maps and strings. Structs are never empty.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Slice, reflect.Map, reflect.String:
		return rv.Len() == 0
	}
	return false
}
