package verify

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
	helpers "git.home.luguber.info/inful/contentmigrate/internal/testutil/testutils"
)

var frEn = []language.Tag{language.French, language.English}

func parse(t *testing.T, src string) *document.Object {
	t.Helper()
	doc, err := document.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func issueStrings(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.String())
	}
	return out
}

func TestCheck_Fixture(t *testing.T) {
	doc, err := document.Parse(helpers.ContentJSON)
	require.NoError(t, err)

	require.Empty(t, Check(doc, frEn))
}

func TestCheck_Part1Output(t *testing.T) {
	doc, err := document.Parse(helpers.ContentJSON)
	require.NoError(t, err)
	set, err := overwrite.Builtin("part1")
	require.NoError(t, err)
	_, err = overwrite.Apply(doc, set)
	require.NoError(t, err)

	require.Empty(t, Check(doc, frEn))
}

func TestCheck_RequiredKeys(t *testing.T) {
	issues := Check(parse(t, `{"globals": [], "sections": {}}`), frEn)

	require.Equal(t, []string{
		"globals: expected object, found array",
		"pages: missing required key",
	}, issueStrings(issues))
}

func TestCheck_Languages(t *testing.T) {
	doc := parse(t, `{
  "languages": ["fr", "de", 3],
  "defaultLanguage": "it",
  "globals": {}, "pages": [], "sections": {}
}`)

	require.Equal(t, []string{
		`languages[1]: language "de" is not a configured locale (fr, en)`,
		"languages[2]: expected string, found number",
		`defaultLanguage: language "it" is not a configured locale (fr, en)`,
	}, issueStrings(Check(doc, frEn)))
}

func TestCheck_LocaleFields(t *testing.T) {
	doc := parse(t, `{
  "globals": {
    "siteName": {"fr": "Site"},
    "about": {"fr": "A", "en": 3},
    "paragraphs": {"fr": ["a", "b"], "en": ["c"]},
    "mixed": {"fr": ["a", 1], "en": "b"},
    "email": "x@example.com",
    "empty": {}
  },
  "pages": [{"title": {"en": "Home"}}],
  "sections": {"hero": {"components": [{"variables": {"headline": {"fr": "Bonjour", "en": "Hello"}}}]}}
}`)

	require.Equal(t, []string{
		`globals.siteName: missing translation "en"`,
		"globals.about.en: expected string or array of strings, found number",
		"globals.mixed.fr: expected string or array of strings, found array",
		`pages[0].title: missing translation "fr"`,
	}, issueStrings(Check(doc, frEn)))
}

func TestCheck_CanonicalLocaleKeys(t *testing.T) {
	doc := parse(t, `{"globals": {"t": {"FR": "a", "en": "b"}}, "pages": [], "sections": {}}`)
	require.Empty(t, Check(doc, frEn))
}

func TestParseLocales(t *testing.T) {
	tags, err := ParseLocales([]string{"FR", "en-us", "fr"})
	require.NoError(t, err)
	require.Equal(t, []string{"fr", "en-US"}, []string{tags[0].String(), tags[1].String()})
	require.Len(t, tags, 2)

	_, err = ParseLocales([]string{"not a tag"})
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = ParseLocales(nil)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestError(t *testing.T) {
	require.NoError(t, Error(nil))

	err := Error([]Issue{{Path: "pages", Message: "missing required key"}})
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, errors.CategoryValidation, classified.Category())
	require.Equal(t, 1, classified.Context()["issues"])
	require.Equal(t, "pages: missing required key", classified.Context()["first"])
}

