// Package i18n localizes user-facing platform messages. Translations live in
// embedded JSON files, one per language, and are resolved through a Catalog
// constructed at startup.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/mediplant/mediplant-go/internal/errors"
	"github.com/mediplant/mediplant-go/internal/logging"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog resolves message ids to localized text.
type Catalog struct {
	bundle     *i18n.Bundle
	defaultTag language.Tag
	languages  []string
	logger     *slog.Logger
}

// NewCatalog loads the embedded locale files. The default language is used
// when a requested language has no translation.
func NewCatalog(defaultLanguage string) (*Catalog, error) {
	defaultTag, err := language.Parse(defaultLanguage)
	if err != nil {
		defaultTag = language.English
	}

	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading embedded locales: %w", err)).
			Component("i18n").
			Category(errors.CategoryFileIO).
			Build()
	}

	var languages []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			return nil, errors.New(fmt.Errorf("loading locale file %s: %w", entry.Name(), err)).
				Component("i18n").
				Category(errors.CategoryFileParsing).
				Context("file", entry.Name()).
				Build()
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".json"))
	}
	if len(languages) == 0 {
		return nil, errors.Newf("no locale files embedded").
			Component("i18n").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return &Catalog{
		bundle:     bundle,
		defaultTag: defaultTag,
		languages:  languages,
		logger:     logging.ForService("i18n"),
	}, nil
}

// Languages returns the language tags with an embedded locale file.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.languages))
	copy(out, c.languages)
	return out
}

// DefaultLanguage returns the fallback language tag.
func (c *Catalog) DefaultLanguage() string {
	return c.defaultTag.String()
}

// Message resolves a message id for the given language preferences, which may
// be plain tags or an Accept-Language header value. Missing translations fall
// back to the default language, then to the id itself.
func (c *Catalog) Message(messageID string, templateData map[string]any, langPrefs ...string) string {
	localizer := i18n.NewLocalizer(c.bundle, langPrefs...)
	localized, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err == nil {
		return localized
	}

	fallback := i18n.NewLocalizer(c.bundle, c.defaultTag.String())
	localized, err = fallback.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		c.logger.Warn("message id missing in all locales", "message_id", messageID)
		return messageID
	}
	return localized
}
