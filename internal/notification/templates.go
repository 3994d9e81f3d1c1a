package notification

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

//go:embed templates.yaml
var defaultTemplates []byte

// buttonKey mini-app buton metninin şablon adı
const buttonKey = "open_app"

// ErrUnknownTemplate şablon adı tanımlı değil
var ErrUnknownTemplate = errors.New("bilinmeyen mesaj tipi")

// Catalog dil bazlı mesaj şablonları
type Catalog struct {
	templates map[string]map[string]*template.Template
}

// LoadCatalog YAML şablon dosyasını parse eder
func LoadCatalog(data []byte) (*Catalog, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("şablon dosyası okunamadı: %w", err)
	}
	if _, ok := raw[models.DefaultLanguage]; !ok {
		return nil, fmt.Errorf("varsayılan dil (%s) için şablon yok", models.DefaultLanguage)
	}

	c := &Catalog{templates: make(map[string]map[string]*template.Template, len(raw))}
	for lang, entries := range raw {
		c.templates[lang] = make(map[string]*template.Template, len(entries))
		for key, text := range entries {
			tmpl, err := template.New(lang + "/" + key).Option("missingkey=zero").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("şablon parse edilemedi (%s/%s): %w", lang, key, err)
			}
			c.templates[lang][key] = tmpl
		}
	}
	return c, nil
}

// DefaultCatalog gömülü şablonları yükler
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultTemplates)
}

// Render mesaj metnini ve buton metnini döner. Bilinmeyen dil varsayılan dile düşer.
// Veri değerleri HTML parse modu için escape edilir.
func (c *Catalog) Render(lang, key string, data map[string]string) (text, button string, err error) {
	set, ok := c.templates[lang]
	if !ok {
		set = c.templates[models.DefaultLanguage]
	}

	tmpl, ok := set[key]
	if !ok || key == buttonKey {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, key)
	}

	escaped := make(map[string]string, len(data))
	for k, v := range data {
		escaped[k] = html.EscapeString(v)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, escaped); err != nil {
		return "", "", fmt.Errorf("şablon işlenemedi (%s): %w", key, err)
	}

	if b, ok := set[buttonKey]; ok {
		var bb strings.Builder
		if err := b.Execute(&bb, nil); err == nil {
			button = bb.String()
		}
	}
	return sb.String(), button, nil
}
