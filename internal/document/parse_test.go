package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/contentmigrate/internal/testutil/testutils"
)

func TestParse_PreservesKeyOrder(t *testing.T) {
	doc, err := Parse([]byte(`{"zeta": 1, "alpha": {"y": true, "x": null}, "mid": []}`))
	require.NoError(t, err)

	require.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Keys())
	alpha, _ := doc.Get("alpha")
	require.Equal(t, []string{"y", "x"}, alpha.(*Object).Keys())
}

func TestParse_ScalarTypes(t *testing.T) {
	doc, err := Parse([]byte(`{"s": "Ingénieur", "n": 1.50, "e": 1e3, "t": true, "f": false, "z": null, "a": [1, "two"]}`))
	require.NoError(t, err)

	get := func(k string) any {
		v, ok := doc.Get(k)
		require.True(t, ok, k)
		return v
	}
	require.Equal(t, "Ingénieur", get("s"))
	require.Equal(t, Number("1.50"), get("n"))
	require.Equal(t, Number("1e3"), get("e"))
	require.Equal(t, true, get("t"))
	require.Equal(t, false, get("f"))
	require.Nil(t, get("z"))
	require.Equal(t, []any{Number("1"), "two"}, get("a"))
}

func TestParse_EscapedStrings(t *testing.T) {
	doc, err := Parse([]byte(`{"q": "a \"b\" \\ é 🚀 \/"}`))
	require.NoError(t, err)

	v, _ := doc.Get("q")
	require.Equal(t, "a \"b\" \\ é 🚀 /", v)
}

func TestParse_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	doc, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`))
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b"}, doc.Keys())
	v, _ := doc.Get("a")
	require.Equal(t, Number("3"), v)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ``},
		{"truncated object", `{"a": 1`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"single quotes", `{'a': 1}`},
		{"trailing comma", `{"a": 1,}`},
		{"top-level array", `[1, 2]`},
		{"top-level string", `"text"`},
		{"invalid utf-8", "{\"s\": \"\xff\xfe\"}"},
		{"invalid utf-8 in key", "{\"\xc3\": 1}"},
		{"lone high surrogate", `{"s": "\ud800"}`},
		{"lone low surrogate", `{"s": "x\udc00y"}`},
		{"reversed surrogate pair", `{"s": "\udc00\ud800"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.input))
			require.Error(t, err)
			require.Nil(t, doc)
			require.True(t, errors.HasCategory(err, errors.CategoryParse), "got %v", err)
		})
	}
}

func TestParse_ErrorReportsLine(t *testing.T) {
	_, err := Parse([]byte("{\n  \"a\": 1,\n  \"b\": ?\n}"))
	require.Error(t, err)

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	line, ok := classified.Context().Get("line")
	require.True(t, ok)
	require.Equal(t, 3, line)
}

func TestParse_SurrogatePairs(t *testing.T) {
	doc, err := Parse([]byte(`{"s": "\ud83d\ude80 \u00e9 \\ud800"}`))
	require.NoError(t, err)

	v, _ := doc.Get("s")
	require.Equal(t, "🚀 é \\ud800", v)
}

func TestParse_InvalidUTF8ReportsOffset(t *testing.T) {
	_, err := Parse([]byte("{\"s\": \"ok\xff\"}"))
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, errors.CategoryParse, classified.Category())
	offset, ok := classified.Context().Get("offset")
	require.True(t, ok)
	require.Equal(t, 9, offset)
}

func TestParse_TopLevelKindInContext(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	kind, _ := classified.Context().GetString("type")
	require.Equal(t, "array", kind)
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue([]byte(`[{"name": "Flutter", "level": 85}]`))
	require.NoError(t, err)

	items := v.([]any)
	require.Len(t, items, 1)
	obj := items[0].(*Object)
	require.Equal(t, []string{"name", "level"}, obj.Keys())

	s, err := ParseValue([]byte(`"omarneyfar@gmail.com"`))
	require.NoError(t, err)
	require.Equal(t, "omarneyfar@gmail.com", s)
}

func TestParse_FixtureRoundTrip(t *testing.T) {
	doc, err := Parse(helpers.ContentJSON)
	require.NoError(t, err)

	out, err := Marshal(doc)
	require.NoError(t, err)
	require.Equal(t, string(helpers.ContentJSON), string(out))

	again, err := Parse(out)
	require.NoError(t, err)
	require.True(t, Equal(doc, again))
}
