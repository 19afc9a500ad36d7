// Package locale holds the language table used to localize titles and pick
// per-language search domains.
package locale

import (
	"sort"
	"strings"
)

// Language describes one supported search language.
type Language struct {
	Name           string
	Code           string
	GoogleDomain   string
	LinkedInDomain string
	// Titles maps canonical English titles to their localized forms.
	Titles map[string]string
}

var languages = map[string]Language{
	"english": {
		Name: "English", Code: "en",
		GoogleDomain: "google.com", LinkedInDomain: "www.linkedin.com",
		Titles: map[string]string{"CEO": "CEO", "Manager": "Manager", "Founder": "Founder", "Engineer": "Engineer"},
	},
	"japanese": {
		Name: "Japanese", Code: "ja",
		GoogleDomain: "google.co.jp", LinkedInDomain: "jp.linkedin.com",
		Titles: map[string]string{"CEO": "代表取締役社長", "Manager": "マネージャー", "Founder": "創業者", "Engineer": "エンジニア"},
	},
	"spanish": {
		Name: "Spanish", Code: "es",
		GoogleDomain: "google.es", LinkedInDomain: "es.linkedin.com",
		Titles: map[string]string{"CEO": "Director Ejecutivo", "Manager": "Gerente", "Founder": "Fundador", "Engineer": "Ingeniero"},
	},
	"german": {
		Name: "German", Code: "de",
		GoogleDomain: "google.de", LinkedInDomain: "de.linkedin.com",
		Titles: map[string]string{"CEO": "Geschäftsführer", "Manager": "Manager", "Founder": "Gründer", "Engineer": "Ingenieur"},
	},
	"french": {
		Name: "French", Code: "fr",
		GoogleDomain: "google.fr", LinkedInDomain: "fr.linkedin.com",
		Titles: map[string]string{"CEO": "PDG", "Manager": "Manager", "Founder": "Fondateur", "Engineer": "Ingénieur"},
	},
	"chinese": {
		Name: "Chinese (Simplified)", Code: "zh",
		GoogleDomain: "google.cn", LinkedInDomain: "cn.linkedin.com",
		Titles: map[string]string{"CEO": "首席执行官", "Manager": "经理", "Founder": "创始人", "Engineer": "工程师"},
	},
	"portuguese": {
		Name: "Portuguese", Code: "pt",
		GoogleDomain: "google.com.br", LinkedInDomain: "br.linkedin.com",
		Titles: map[string]string{"CEO": "Diretor Executivo", "Manager": "Gerente", "Founder": "Fundador", "Engineer": "Engenheiro"},
	},
	"russian": {
		Name: "Russian", Code: "ru",
		GoogleDomain: "google.ru", LinkedInDomain: "ru.linkedin.com",
		Titles: map[string]string{"CEO": "Генеральный директор", "Manager": "Менеджер", "Founder": "Основатель", "Engineer": "Инженер"},
	},
	"arabic": {
		Name: "Arabic", Code: "ar",
		GoogleDomain: "google.com.sa", LinkedInDomain: "sa.linkedin.com",
		Titles: map[string]string{"CEO": "الرئيس التنفيذي", "Manager": "مدير", "Founder": "مؤسس", "Engineer": "مهندس"},
	},
	"hindi": {
		Name: "Hindi", Code: "hi",
		GoogleDomain: "google.co.in", LinkedInDomain: "in.linkedin.com",
		Titles: map[string]string{"CEO": "मुख्य कार्यकारी अधिकारी", "Manager": "प्रबंधक", "Founder": "संस्थापक", "Engineer": "इंजीनियर"},
	},
}

// byCode indexes languages by ISO code for lookup from config values.
var byCode = func() map[string]Language {
	m := make(map[string]Language, len(languages))
	for _, l := range languages {
		m[l.Code] = l
	}
	return m
}()

// Default is the language used when none is selected.
var Default = languages["english"]

// Lookup finds a language by name (case-insensitive) or ISO code.
// Unknown inputs fall back to English.
func Lookup(nameOrCode string) Language {
	if l, ok := languages[normalize(nameOrCode)]; ok {
		return l
	}
	if l, ok := byCode[normalize(nameOrCode)]; ok {
		return l
	}
	return Default
}

// LocalizeTitle translates a canonical title, returning the input unchanged
// when no translation exists. Matching is case-insensitive: expansion
// lowercases title variants before they reach the acquirers.
func (l Language) LocalizeTitle(title string) string {
	for canonical, localized := range l.Titles {
		if strings.EqualFold(canonical, title) {
			return localized
		}
	}
	return title
}

// Names lists supported language names, sorted.
func Names() []string {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		out = append(out, l.Name)
	}
	sort.Strings(out)
	return out
}

func normalize(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}
