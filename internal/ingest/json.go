package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// LoadJSON parses one of four layouts:
//
//   - an array of flat objects, one per (model, format) pair
//   - an array of model objects: {"model_name": .., "formats": {"<fmt>": {..}}}
//   - JSON Lines of flat objects
//   - the nested export: {"<model>": {"face_count_k": .., "formats": {"<fmt>": {..}}}}
//
// Object key order is preserved so models keep their file order. An element
// that is not an object is dropped with a ParseError.
func LoadJSON(r io.Reader, n *Normalizer) (*Result, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, err
	}

	b := newBuilder(n)
	dec := json.NewDecoder(br)

	if first == '[' {
		var rows []json.RawMessage
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		for i, raw := range rows {
			b.addElement(i+1, raw)
		}
		return b.finish(), nil
	}

	index := 0
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		index++

		members, ok := objectMembers(raw)
		if !ok {
			b.dropElement(index)
			continue
		}
		if !isFlat(members) {
			if index > 1 {
				return nil, fmt.Errorf("invalid JSON: nested document must be the only value")
			}
			b.addNested(members)
			continue
		}
		b.addMembers(index, members)
	}
	return b.finish(), nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("empty JSON input: %w", ErrUnknownSource)
		}
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case 0xEF:
			// UTF-8 byte order mark.
			if _, err := br.Discard(2); err != nil {
				return 0, err
			}
			continue
		}
		return c, br.UnreadByte()
	}
}

// member is one key/value pair of a JSON object, in document order.
type member struct {
	key   string
	value json.RawMessage
}

// objectMembers splits a JSON object into its members. ok is false when raw
// is not an object. The input has already been decoded once, so it is valid.
func objectMembers(raw json.RawMessage) ([]member, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, false
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, false
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, false
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, false
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, false
	}
	return members, true
}

// isFlat reports whether an object is a single record rather than the nested
// by-model document, whose values are all objects.
func isFlat(members []member) bool {
	for _, m := range members {
		v := bytes.TrimSpace(m.value)
		if len(v) == 0 || v[0] != '{' {
			return true
		}
	}
	return len(members) == 0
}

// dropElement records a top-level element that is not an object.
func (b *builder) dropElement(line int) {
	b.drop(&ParseError{Line: line, Field: fieldModelID, Err: ErrMissingField})
}

// addElement adds one array element: a flat record, or a model object
// carrying its formats.
func (b *builder) addElement(line int, raw json.RawMessage) {
	members, ok := objectMembers(raw)
	if !ok {
		b.dropElement(line)
		return
	}
	if formats, ok := formatsMember(members); ok {
		var id string
		for _, m := range members {
			if field, known := canonicalField(m.key); known && field == fieldModelID {
				id = jsonCell(m.value).String()
			}
		}
		b.addModel(id, members, formats, func() int { return line })
		return
	}
	b.addMembers(line, members)
}

// formatsMember returns the "formats" member when it holds an object.
func formatsMember(members []member) (json.RawMessage, bool) {
	for _, m := range members {
		if m.key != "formats" {
			continue
		}
		v := bytes.TrimSpace(m.value)
		if len(v) > 0 && v[0] == '{' {
			return m.value, true
		}
	}
	return nil, false
}

func (b *builder) addMembers(line int, members []member) {
	cells := make(map[string]cell, len(members))
	for _, m := range members {
		field, ok := canonicalField(m.key)
		if !ok {
			b.res.Report.unknownField(m.key)
			continue
		}
		cells[field] = jsonCell(m.value)
	}
	b.add(line, cells)
}

// addNested walks {"<model>": {..., "formats": {"<fmt>": {...}}}}. Rows are
// numbered in document order across models.
func (b *builder) addNested(models []member) {
	line := 0
	next := func() int {
		line++
		return line
	}
	for _, m := range models {
		attrs, ok := objectMembers(m.value)
		if !ok {
			b.dropElement(next())
			continue
		}
		formats, _ := formatsMember(attrs)
		b.addModel(m.key, attrs, formats, next)
	}
}

// addModel adds one row per format of a model object. Model level keys (face
// counts, texture counts) apply to every row and are counted once.
func (b *builder) addModel(id string, attrs []member, formats json.RawMessage, next func() int) {
	shared := map[string]cell{fieldModelID: textCell(id)}
	for _, a := range attrs {
		if a.key == "formats" {
			continue
		}
		field, ok := canonicalField(a.key)
		if !ok {
			b.res.Report.unknownField(a.key)
			continue
		}
		if field == fieldModelID {
			continue
		}
		shared[field] = jsonCell(a.value)
	}

	rows, _ := objectMembers(formats)
	if len(rows) == 0 {
		b.drop(&ParseError{Line: next(), Field: fieldFormat, Value: id, Err: ErrMissingField})
		return
	}
	if id == "" {
		b.drop(&ParseError{Line: next(), Field: fieldModelID, Err: ErrMissingField})
		return
	}
	b.countShared(shared)

	for _, f := range rows {
		line := next()
		fields, ok := objectMembers(f.value)
		if !ok {
			b.drop(&ParseError{Line: line, Field: fieldFormat, Value: id + "/" + f.key, Err: ErrMissingField})
			continue
		}
		cells := make(map[string]cell, len(shared)+len(fields)+1)
		for k, v := range shared {
			cells[k] = v
		}
		cells[fieldFormat] = textCell(f.key)
		for _, fm := range fields {
			field, ok := canonicalField(fm.key)
			if !ok {
				b.res.Report.unknownField(fm.key)
				continue
			}
			if field == fieldModelID || field == fieldFormat {
				continue
			}
			cells[field] = jsonCell(fm.value)
		}
		b.add(line, cells)
	}
}

// countShared counts model level numeric cells once and marks them so the
// per-format rows do not count them again.
func (b *builder) countShared(shared map[string]cell) {
	for _, f := range numericFields {
		c, ok := shared[string(f.metric)]
		if !ok {
			continue
		}
		b.res.Report.count(f.metric, c.normalize(b.n, f.kind))
		c.counted = true
		shared[string(f.metric)] = c
	}
}
