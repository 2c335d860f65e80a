// Package messages carrega os textos exibidos ao usuário (erros de validação,
// confirmação, rate limit) a partir de catálogos JSON embutidos, um por idioma.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLang é usado quando o idioma pedido não existe ou não tem a chave.
const DefaultLang = "en"

// Chaves usadas pelo formulário de contato.
const (
	KeyRateLimited = "contact.rate_limited"
	KeySuccess     = "contact.success"
	KeyInternal    = "contact.internal"
	KeyMalformed   = "contact.malformed"
)

// FieldErrorKey devolve a chave da mensagem de erro de um campo.
func FieldErrorKey(field string) string { return "contact.errors." + field }

// Catalog guarda chaves achatadas por idioma: "es" -> "contact.success" -> "...".
type Catalog struct {
	translations map[string]map[string]string
	langs        []string
	matcher      language.Matcher
}

// Load lê todos os locales/*.json embutidos.
func Load() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}

	c := &Catalog{translations: make(map[string]map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")
		content, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}

		var nested map[string]any
		if err := json.Unmarshal(content, &nested); err != nil {
			return nil, fmt.Errorf("unmarshal locale %s: %w", entry.Name(), err)
		}
		flat := make(map[string]string)
		flatten("", nested, flat)
		c.translations[lang] = flat
	}
	if _, ok := c.translations[DefaultLang]; !ok {
		return nil, fmt.Errorf("default locale %q is missing", DefaultLang)
	}

	// DefaultLang primeiro: é o que o matcher devolve quando nada combina.
	c.langs = append(c.langs, DefaultLang)
	others := make([]string, 0, len(c.translations))
	for lang := range c.translations {
		if lang != DefaultLang {
			others = append(others, lang)
		}
	}
	sort.Strings(others)
	c.langs = append(c.langs, others...)

	tags := make([]language.Tag, 0, len(c.langs))
	for _, lang := range c.langs {
		tags = append(tags, language.Make(lang))
	}
	c.matcher = language.NewMatcher(tags)
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default devolve o catálogo embutido, carregado uma única vez.
// Um catálogo embutido inválido é erro de build, por isso o panic.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func flatten(prefix string, nested map[string]any, result map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flatten(key, child, result)
		case string:
			result[key] = child
		default:
			result[key] = fmt.Sprintf("%v", child)
		}
	}
}

// Languages lista os idiomas disponíveis, DefaultLang primeiro.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.langs...)
}

// T traduz key para lang, caindo para DefaultLang e, por fim, para a própria key.
func (c *Catalog) T(lang, key string) string {
	if msg, ok := c.translations[lang][key]; ok {
		return msg
	}
	if msg, ok := c.translations[DefaultLang][key]; ok {
		return msg
	}
	return key
}

// Match escolhe o idioma suportado que melhor atende um header Accept-Language.
func (c *Catalog) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	return c.langs[idx]
}
