package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// keyValue is one member of an object.
type keyValue struct {
	Key   string
	Value any
}

// object is a JSON object that marshals its members in insertion order.
// Adding an existing key replaces the value in place.
type object struct {
	order []keyValue
	index map[string]int
}

func newObject() *object {
	return &object{index: make(map[string]int)}
}

func (o *object) add(key string, value any) *object {
	if i, ok := o.index[key]; ok {
		o.order[i].Value = value
		return o
	}
	o.index[key] = len(o.order)
	o.order = append(o.order, keyValue{Key: key, Value: value})
	return o
}

func (o *object) len() int {
	return len(o.order)
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range o.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", kv.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
