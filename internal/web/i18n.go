package web

import (
	"embed"
	"fmt"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed i18n/*.toml
var i18nFiles embed.FS

// Locale is one interface language and its string table.
type Locale struct {
	Code    string            `toml:"-" json:"code"`
	Name    string            `toml:"name" json:"name"`
	Flag    string            `toml:"flag" json:"flag"`
	Strings map[string]string `toml:"strings" json:"strings"`
}

// T returns the string for key, or the key itself when it is not translated.
func (l *Locale) T(key string) string {
	if s, ok := l.Strings[key]; ok && s != "" {
		return s
	}
	return key
}

type Translations struct {
	locales map[string]*Locale
}

// LoadTranslations parses every embedded i18n/<code>.toml file.
func LoadTranslations() (*Translations, error) {
	entries, err := i18nFiles.ReadDir("i18n")
	if err != nil {
		return nil, err
	}
	t := &Translations{locales: make(map[string]*Locale)}
	for _, e := range entries {
		code := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		var l Locale
		if _, err := toml.DecodeFS(i18nFiles, "i18n/"+e.Name(), &l); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		l.Code = code
		t.locales[code] = &l
	}
	return t, nil
}

func (t *Translations) Locale(code string) (*Locale, bool) {
	l, ok := t.locales[strings.ToLower(code)]
	return l, ok
}

// Languages lists the available interface languages without their tables.
func (t *Translations) Languages() []Locale {
	out := make([]Locale, 0, len(t.locales))
	for _, l := range t.locales {
		out = append(out, Locale{Code: l.Code, Name: l.Name, Flag: l.Flag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// HandleI18n serves GET /api/i18n/{lang}. With ?keys=a,b only those keys are
// resolved, each falling back to itself.
func (t *Translations) HandleI18n(w http.ResponseWriter, r *http.Request) {
	l, ok := t.Locale(r.PathValue("lang"))
	if !ok {
		RespondError(w, http.StatusNotFound, "Unsupported interface language")
		return
	}

	keys := r.URL.Query().Get("keys")
	if keys == "" {
		RespondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": l})
		return
	}
	resolved := make(map[string]string)
	for _, k := range strings.Split(keys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			resolved[k] = l.T(k)
		}
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   Locale{Code: l.Code, Name: l.Name, Flag: l.Flag, Strings: resolved},
	})
}

func (t *Translations) HandleLanguages(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": t.Languages()})
}
