package sanitizer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reSearchMeta = regexp.MustCompile(`[.*+?^${}()|[\]\\]`)

// CollapseWhitespace trims the string and folds internal whitespace runs
// into single spaces.
func CollapseWhitespace(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func SanitizeTitle(input string) string {
	return CollapseWhitespace(input)
}

func SanitizeComment(input string) string {
	return CollapseWhitespace(input)
}

func SanitizeLocation(input string) string {
	p := Pipeline{
		CollapseWhitespace,
	}
	return p.Apply(input)
}

func SanitizeCountry(input string) string {
	return CollapseWhitespace(input)
}

// SanitizeSearchTerm prepares a free-text query for use inside a regex
// filter. Every regex metacharacter is escaped, so user input can never
// change the shape of the pattern.
func SanitizeSearchTerm(input string) string {
	s := CollapseWhitespace(input)
	if s == "" {
		return ""
	}
	return reSearchMeta.ReplaceAllString(s, `\$0`)
}

// SanitizeImageURL normalizes an image link: scheme defaulted to https,
// host lowercased, www and trailing slashes stripped, tracking query
// parameters removed. Returns "" for anything unparseable.
func SanitizeImageURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Host = strings.ToLower(u.Host)
	if after, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = after
	}
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		key := strings.TrimSpace(strings.ToLower(k))
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		for _, val := range v {
			value := strings.TrimSpace(val)
			if value != "" {
				qClean.Add(key, value)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}
