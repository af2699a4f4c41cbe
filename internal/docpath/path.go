// Package docpath addresses values inside a content document by literal path,
// e.g. sections.hero.components[0].variables.headline.
package docpath

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

// Segment is one step of a path: an object key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Key returns a key segment.
func Key(k string) Segment { return Segment{Key: k} }

// Index returns an index segment.
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path is a sequence of segments starting at the document root.
type Path []Segment

// String renders p in the syntax accepted by Parse.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		switch {
		case seg.IsIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		case isPlainKey(seg.Key):
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.Key)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(seg.Key))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isPlainKey(k string) bool {
	return k != "" && !strings.ContainsAny(k, `.[]"`)
}

// Parse reads a path of the form key(.key|[index]|["quoted key"])*.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, invalid(s, "empty path")
	}

	var p Path
	for i := 0; i < len(s); {
		switch {
		case s[i] == '[':
			seg, n, err := parseBracket(s, i)
			if err != nil {
				return nil, err
			}
			p = append(p, seg)
			i += n
		case s[i] == '.' && len(p) > 0:
			i++
			key := scanKey(s[i:])
			if key == "" {
				return nil, invalid(s, "empty key at offset "+strconv.Itoa(i))
			}
			p = append(p, Key(key))
			i += len(key)
		case len(p) == 0:
			key := scanKey(s)
			if key == "" {
				return nil, invalid(s, "path must start with a key")
			}
			p = append(p, Key(key))
			i += len(key)
		default:
			return nil, invalid(s, "unexpected "+strconv.QuoteRune(rune(s[i]))+" at offset "+strconv.Itoa(i))
		}
	}
	return p, nil
}

// MustParse is Parse for paths known at compile time.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func scanKey(s string) string {
	end := strings.IndexAny(s, `.[]"`)
	if end < 0 {
		return s
	}
	return s[:end]
}

// parseBracket reads an [index] or ["key"] segment starting at s[start].
func parseBracket(s string, start int) (Segment, int, error) {
	rest := s[start:]
	if len(rest) > 1 && rest[1] == '"' {
		j := 2
		for j < len(rest) && rest[j] != '"' {
			if rest[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(rest) {
			return Segment{}, 0, invalid(s, "unterminated quoted key")
		}
		key, err := strconv.Unquote(rest[1 : j+1])
		if err != nil {
			return Segment{}, 0, invalid(s, "bad quoted key: "+err.Error())
		}
		if j+1 >= len(rest) || rest[j+1] != ']' {
			return Segment{}, 0, invalid(s, "expected ']' after quoted key")
		}
		return Key(key), j + 2, nil
	}

	j := 1
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}
	if j == 1 || j >= len(rest) || rest[j] != ']' {
		return Segment{}, 0, invalid(s, "expected [index] at offset "+strconv.Itoa(start))
	}
	idx, err := strconv.Atoi(rest[1:j])
	if err != nil {
		return Segment{}, 0, invalid(s, "index out of range at offset "+strconv.Itoa(start))
	}
	return Index(idx), j + 1, nil
}

func invalid(path, reason string) error {
	return errors.ValidationError("invalid document path").
		WithContext("path", path).
		WithContext("reason", reason).
		Build()
}
