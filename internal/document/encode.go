package document

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// EncodeOptions controls the output layout.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level. Zero still puts every
	// member on its own line.
	Indent int
}

// Marshal encodes v with DefaultIndent.
func Marshal(v any) ([]byte, error) {
	return Encode(v, EncodeOptions{Indent: DefaultIndent})
}

// Encode writes v as indented JSON.
//
// Keys keep document order, members are separated by ",\n", keys by ": ",
// and empty containers are written as {} and []. Only '"', '\' and control
// characters are escaped, so non-ASCII text stays literal. No trailing
// newline is written.
func Encode(v any, opts EncodeOptions) ([]byte, error) {
	if opts.Indent < 0 {
		return nil, fmt.Errorf("negative indent %d", opts.Indent)
	}
	e := &encoder{indent: strings.Repeat(" ", opts.Indent)}
	if err := e.value(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	indent string
	depth  int
}

func (e *encoder) newline() {
	e.buf.WriteByte('\n')
	for i := 0; i < e.depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *encoder) value(v any) error {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.string(t)
	case Number:
		if t == "" {
			return fmt.Errorf("empty number literal")
		}
		e.buf.WriteString(string(t))
	case int:
		e.buf.WriteString(strconv.Itoa(t))
	case int64:
		e.buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("unsupported float value %v", t)
		}
		e.buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case *Object:
		return e.object(t)
	case []any:
		return e.array(t)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func (e *encoder) object(o *Object) error {
	if o.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	e.buf.WriteByte('{')
	e.depth++
	for i, k := range o.keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline()
		e.string(k)
		e.buf.WriteString(": ")
		if err := e.value(o.fields[k]); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	e.depth--
	e.newline()
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(items []any) error {
	if len(items) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	e.depth++
	for i, item := range items {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline()
		if err := e.value(item); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	e.depth--
	e.newline()
	e.buf.WriteByte(']')
	return nil
}

const hexDigits = "0123456789abcdef"

func (e *encoder) string(s string) {
	e.buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			if c < utf8.RuneSelf {
				i++
				continue
			}
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size
			continue
		}
		e.buf.WriteString(s[start:i])
		switch c {
		case '"':
			e.buf.WriteString(`\"`)
		case '\\':
			e.buf.WriteString(`\\`)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\f':
			e.buf.WriteString(`\f`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\r':
			e.buf.WriteString(`\r`)
		case '\t':
			e.buf.WriteString(`\t`)
		default:
			e.buf.WriteString(`\u00`)
			e.buf.WriteByte(hexDigits[c>>4])
			e.buf.WriteByte(hexDigits[c&0xf])
		}
		i++
		start = i
	}
	e.buf.WriteString(s[start:])
	e.buf.WriteByte('"')
}
