package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Number is the set of types an Optional can carry.
type Number interface {
	~int | ~float64
}

// Optional is a measurement that may be absent. The zero value is absent.
type Optional[T Number] struct {
	value T
	valid bool
}

// Some returns a present value. NaN and infinities are not measurements
// and come back absent.
func Some[T Number](v T) Optional[T] {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Optional[T]{}
	}
	return Optional[T]{value: v, valid: true}
}

// None returns an absent value.
func None[T Number]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Valid reports whether the value is present.
func (o Optional[T]) Valid() bool {
	return o.valid
}

// Float widens the value to float64, keeping absence.
func (o Optional[T]) Float() Optional[float64] {
	if !o.valid {
		return Optional[float64]{}
	}
	return Some(float64(o.value))
}

// String renders the value, or "N/A" when absent.
func (o Optional[T]) String() string {
	if !o.valid {
		return "N/A"
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes an absent value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
