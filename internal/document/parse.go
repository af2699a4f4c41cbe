package document

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse decodes a JSON document whose top-level value must be an object.
//
// The input is first checked with a strict syntax pass (which also rejects
// trailing data after the top-level value), then read into an ordered tree.
func Parse(data []byte) (*Object, error) {
	root, err := ParseValue(data)
	if err != nil {
		return nil, err
	}

	obj, ok := root.(*Object)
	if !ok {
		return nil, errors.ParseError("top-level value must be an object").
			WithContext("type", KindOf(root)).
			Build()
	}
	return obj, nil
}

// ParseValue decodes any JSON value into a tree value.
//
// The input must be UTF-8 and every \u escape in the range U+D800..U+DFFF
// must be part of a surrogate pair; anything else could not be written back
// as UTF-8.
func ParseValue(data []byte) (any, error) {
	if !utf8.Valid(data) {
		return nil, errors.ParseError("input is not valid UTF-8").
			WithContext("offset", invalidOffset(data)).
			Build()
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, syntaxError(data, err)
	}
	if off := loneSurrogate(data); off >= 0 {
		line, col := position(data, int64(off))
		return nil, errors.ParseError("unpaired surrogate escape in string").
			WithContext("offset", off).
			WithContext("line", line).
			WithContext("column", col).
			Build()
	}
	iter := jsoniter.ParseBytes(jsonAPI, data)
	v := readValue(iter)
	if iter.Error != nil && !stderrors.Is(iter.Error, io.EOF) {
		return nil, errors.WrapError(iter.Error, errors.CategoryParse, "invalid JSON").Fatal().Build()
	}
	return v, nil
}

func readValue(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Set(key, readValue(it))
			return it.Error == nil
		})
		return obj
	case jsoniter.ArrayValue:
		items := []any{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readValue(it))
			return it.Error == nil
		})
		return items
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return Number(iter.ReadNumber())
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		iter.ReportError("readValue", "unexpected token")
		return nil
	}
}

// syntaxError converts a decoding failure into a parse error with a 1-based
// line and column.
func syntaxError(data []byte, err error) error {
	b := errors.WrapError(err, errors.CategoryParse, "invalid JSON").Fatal()

	var se *json.SyntaxError
	if stderrors.As(err, &se) {
		line, col := position(data, se.Offset)
		b = b.WithContext("offset", se.Offset).WithContext("line", line).WithContext("column", col)
	}
	return b.Build()
}

func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line = bytes.Count(prefix, []byte("\n")) + 1
	col = len(prefix) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}

// loneSurrogate returns the offset of the first \u escape that encodes half
// of a surrogate pair without its partner, or -1. data must be syntactically
// valid JSON.
func loneSurrogate(data []byte) int {
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			if data[i+1] != 'u' {
				i++
				continue
			}
			r := hexRune(data[i+2 : i+6])
			switch {
			case r >= 0xD800 && r <= 0xDBFF:
				if i+12 <= len(data) && data[i+6] == '\\' && data[i+7] == 'u' {
					if lo := hexRune(data[i+8 : i+12]); lo >= 0xDC00 && lo <= 0xDFFF {
						i += 11
						continue
					}
				}
				return i
			case r >= 0xDC00 && r <= 0xDFFF:
				return i
			}
			i += 5
		}
	}
	return -1
}

func hexRune(h []byte) rune {
	var r rune
	for _, c := range h {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		}
	}
	return r
}
