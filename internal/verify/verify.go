// Package verify checks that a content document still has the shape the
// website loader expects: the required top-level blocks, known languages and
// complete translations for every localized field.
package verify

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/contentmigrate/internal/docpath"
	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

// RequiredKeys are the top-level blocks the loader refuses to start without.
var RequiredKeys = []string{"globals", "pages", "sections"}

// Issue is one problem found in a document.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ParseLocales canonicalizes locale tags, e.g. "FR" to "fr" and "en-us" to
// "en-US". Duplicates are dropped.
func ParseLocales(raw []string) ([]language.Tag, error) {
	tags := make([]language.Tag, 0, len(raw))
	for _, s := range raw {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid locale tag").
				WithContext("locale", s).
				Build()
		}
		if !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil, errors.ValidationError("at least one locale is required").Build()
	}
	return tags, nil
}

type checker struct {
	locales []string
	issues  []Issue
}

// Check returns the issues found in doc, in document order.
func Check(doc *document.Object, locales []language.Tag) []Issue {
	c := &checker{}
	for _, tag := range locales {
		c.locales = append(c.locales, tag.String())
	}

	c.checkTopLevel(doc)
	c.walk(doc, nil)
	return c.issues
}

func (c *checker) report(p docpath.Path, format string, args ...any) {
	c.issues = append(c.issues, Issue{Path: p.String(), Message: fmt.Sprintf(format, args...)})
}

func (c *checker) checkTopLevel(doc *document.Object) {
	kinds := map[string]string{"globals": "object", "pages": "array", "sections": "object"}
	for _, key := range RequiredKeys {
		v, ok := doc.Get(key)
		if !ok {
			c.report(docpath.Path{docpath.Key(key)}, "missing required key")
			continue
		}
		if kind := document.KindOf(v); kind != kinds[key] {
			c.report(docpath.Path{docpath.Key(key)}, "expected %s, found %s", kinds[key], kind)
		}
	}

	if v, ok := doc.Get("languages"); ok {
		p := docpath.Path{docpath.Key("languages")}
		items, isArray := v.([]any)
		if !isArray {
			c.report(p, "expected array, found %s", document.KindOf(v))
		}
		for i, item := range items {
			c.checkLanguage(append(p, docpath.Index(i)), item)
		}
	}
	if v, ok := doc.Get("defaultLanguage"); ok {
		c.checkLanguage(docpath.Path{docpath.Key("defaultLanguage")}, v)
	}
}

func (c *checker) checkLanguage(p docpath.Path, v any) {
	s, ok := v.(string)
	if !ok {
		c.report(p, "expected string, found %s", document.KindOf(v))
		return
	}
	if c.localeOf(s) == "" {
		c.report(p, "language %q is not a configured locale (%s)", s, strings.Join(c.locales, ", "))
	}
}

// localeOf returns the configured locale s names, or "".
func (c *checker) localeOf(s string) string {
	tag, err := language.Parse(s)
	if err != nil {
		return ""
	}
	if canonical := tag.String(); slices.Contains(c.locales, canonical) {
		return canonical
	}
	return ""
}

func (c *checker) walk(v any, p docpath.Path) {
	switch t := v.(type) {
	case *document.Object:
		if c.isLocaleField(t) {
			c.checkLocaleField(t, p)
			return
		}
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			c.walk(child, append(slices.Clip(p), docpath.Key(k)))
		}
	case []any:
		for i, item := range t {
			c.walk(item, append(slices.Clip(p), docpath.Index(i)))
		}
	}
}

func (c *checker) isLocaleField(o *document.Object) bool {
	if o.Len() == 0 {
		return false
	}
	for _, k := range o.Keys() {
		if c.localeOf(k) == "" {
			return false
		}
	}
	return true
}

func (c *checker) checkLocaleField(o *document.Object, p docpath.Path) {
	present := make(map[string]bool, o.Len())
	for _, k := range o.Keys() {
		present[c.localeOf(k)] = true
		v, _ := o.Get(k)
		if !isLocalizedText(v) {
			c.report(append(slices.Clip(p), docpath.Key(k)), "expected string or array of strings, found %s", document.KindOf(v))
		}
	}
	for _, locale := range c.locales {
		if !present[locale] {
			c.report(p, "missing translation %q", locale)
		}
	}
}

func isLocalizedText(v any) bool {
	switch t := v.(type) {
	case string:
		return true
	case []any:
		for _, item := range t {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Error turns issues into a validation error, or nil when there are none.
func Error(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return errors.ValidationError("content document failed verification").
		WithContext("issues", len(issues)).
		WithContext("first", issues[0].String()).
		Build()
}
