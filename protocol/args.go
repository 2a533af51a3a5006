package protocol

import (
	"fmt"
	"math"

	"github.com/wippyai/wlegl/errors"
	"github.com/wippyai/wlegl/resource"
)

// Args are the decoded arguments of one request.
type Args []any

// Int returns argument i as a signed integer.
func (a Args) Int(i int) (int32, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int32:
		return n, nil
	case int:
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return int32(n), nil
		}
	}
	return 0, a.mismatch(i, "int")
}

// Uint returns argument i as an unsigned integer.
func (a Args) Uint(i int) (uint32, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint32:
		return n, nil
	case resource.ID:
		return uint32(n), nil
	}
	return 0, a.mismatch(i, "uint")
}

// ID returns argument i as an object id (new_id or object).
func (a Args) ID(i int) (resource.ID, error) {
	v, err := a.at(i)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case resource.ID:
		return n, nil
	case uint32:
		return resource.ID(n), nil
	}
	return 0, a.mismatch(i, "object")
}

// Array returns argument i as an int array.
func (a Args) Array(i int) ([]int32, error) {
	v, err := a.at(i)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case []int32:
		return n, nil
	case nil:
		return nil, nil
	}
	return nil, a.mismatch(i, "array")
}

func (a Args) at(i int) (any, error) {
	if i < 0 || i >= len(a) {
		return nil, errors.InvalidInput(errors.PhaseDispatch, fmt.Sprintf("missing argument %d of %d", i, len(a)))
	}
	return a[i], nil
}

func (a Args) mismatch(i int, want string) error {
	return errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
		Value(a[i]).
		Detail("argument %d: want %s, got %T", i, want, a[i]).
		Build()
}
