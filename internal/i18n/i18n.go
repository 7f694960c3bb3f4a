// Package i18n provides the localised text shown on gcdweb's pages.
// Translations are YAML files embedded from the locales directory and loaded
// with go-i18n into a Catalog that is read-only after construction, so one
// Catalog can be shared by every request handler.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLanguage is used when neither the request nor the configuration
// picks a supported language.
const DefaultLanguage = "en"

// Message IDs.
const (
	MsgPageTitle        = "page_title"
	MsgFormHeading      = "form_heading"
	MsgFormLabelN       = "form_label_n"
	MsgFormLabelM       = "form_label_m"
	MsgFormSubmit       = "form_submit"
	MsgResultLead       = "result_lead"
	MsgResultAgain      = "result_again"
	MsgErrorHeading     = "error_heading"
	MsgErrorZero        = "error_zero"
	MsgErrorMissing     = "error_missing"
	MsgErrorMalformed   = "error_malformed"
	MsgErrorDuplicate   = "error_duplicate"
	MsgErrorBody        = "error_body"
	MsgErrorContentType = "error_content_type"
	MsgErrorNotFound    = "error_not_found"
	MsgErrorMethod      = "error_method"
	MsgErrorBack        = "error_back"
)

// Catalog holds every parsed translation.
type Catalog struct {
	bundle   *i18n.Bundle
	fallback string
}

// New loads the embedded translations. fallback is the language used when a
// request states no supported preference; it must be one of Languages().
func New(fallback string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("reading embedded locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile(path.Join("locales", f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading locale %s: %w", f.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parsing locale %s: %w", f.Name(), err)
		}
	}

	if fallback == "" {
		fallback = DefaultLanguage
	}
	c := &Catalog{bundle: bundle, fallback: fallback}
	if !c.Supports(fallback) {
		return nil, fmt.Errorf("unsupported language %q (supported: %v)", fallback, c.Languages())
	}
	return c, nil
}

// Languages lists the base languages with a translation file.
func (c *Catalog) Languages() []string {
	var out []string
	for _, tag := range c.bundle.LanguageTags() {
		base, _ := tag.Base()
		out = append(out, base.String())
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Supports reports whether lang parses and has a translation file.
func (c *Catalog) Supports(lang string) bool {
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	return slices.Contains(c.Languages(), base.String())
}

// Localizer returns a localizer for the given preferences, most preferred
// first. Each entry may be a language tag or a raw Accept-Language header.
func (c *Catalog) Localizer(prefs ...string) *Localizer {
	langs := append(slices.Clone(prefs), c.fallback)
	return &Localizer{l: i18n.NewLocalizer(c.bundle, langs...)}
}

// Localizer translates message IDs for one request.
type Localizer struct {
	l *i18n.Localizer
}

// T translates id, filling template placeholders from data. A missing message
// yields the ID itself.
func (l *Localizer) T(id string, data map[string]any) string {
	msg, err := l.l.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

// Lang returns the language tag the localizer resolved to.
func (l *Localizer) Lang() string {
	_, tag, err := l.l.LocalizeWithTag(&i18n.LocalizeConfig{MessageID: MsgPageTitle})
	if err != nil {
		return DefaultLanguage
	}
	return tag.String()
}
