package postmark

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	MaxPageCount     = 500
	DefaultPageCount = 500
	DateLayout       = "2006-01-02"
)

// Page is a normalized count/offset pair.
type Page struct {
	Count  int
	Offset int
}

// NormalizePage applies the provider defaults: count outside 1..500 becomes
// 500 and a negative offset becomes 0.
func NormalizePage(count int, offset int) Page {
	if count < 1 || count > MaxPageCount {
		count = DefaultPageCount
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Count: count, Offset: offset}
}

func (p Page) apply(query url.Values) {
	query.Set("count", strconv.Itoa(p.Count))
	query.Set("offset", strconv.Itoa(p.Offset))
}

// ValidateEmail requires a bare address such as user@example.com.
func ValidateEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("email address is required")
	}
	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed || parsed.Name != "" {
		return "", fmt.Errorf("%q is not a valid email address", raw)
	}
	at := strings.LastIndex(trimmed, "@")
	if at < 1 || !strings.Contains(trimmed[at+1:], ".") {
		return "", fmt.Errorf("%q is not a valid email address", raw)
	}
	return trimmed, nil
}

// ValidateDate accepts YYYY-MM-DD.
func ValidateDate(name string, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if _, err := time.Parse(DateLayout, trimmed); err != nil {
		return "", fmt.Errorf("%s %q must be a date formatted YYYY-MM-DD", name, raw)
	}
	return trimmed, nil
}

var serverColors = map[string]string{
	"purple":    "purple",
	"blue":      "blue",
	"turquoise": "turquoise",
	"turqoise":  "turquoise",
	"green":     "green",
	"red":       "red",
	"yellow":    "yellow",
	"grey":      "grey",
	"orange":    "orange",
}

// ParseServerColor normalizes a rack-screen color name.
func ParseServerColor(raw string) (string, error) {
	color, ok := serverColors[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", fmt.Errorf("invalid server color %q; possible values are purple, blue, turquoise, green, red, yellow, grey, or orange", raw)
	}
	return color, nil
}

var trackLinkOptions = []string{"None", "HtmlAndText", "HtmlOnly", "TextOnly"}

// ParseTrackLinks normalizes a link tracking option to its canonical casing.
func ParseTrackLinks(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	for _, option := range trackLinkOptions {
		if strings.EqualFold(option, trimmed) {
			return option, nil
		}
	}
	return "", fmt.Errorf("invalid track links option %q; possible values are None, HtmlAndText, HtmlOnly, or TextOnly", raw)
}

var templateAliasPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]*$`)

// ValidateTemplateAlias enforces letters, digits, '.', '-' and '_' with a
// leading letter.
func ValidateTemplateAlias(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if !templateAliasPattern.MatchString(trimmed) {
		return "", fmt.Errorf("invalid template alias %q; use letters, digits, '.', '-' or '_' and start with a letter", raw)
	}
	return trimmed, nil
}

// ValidateID rejects empty identifiers and identifiers that would escape the
// resource path, including the dot segments a path join would collapse.
func ValidateID(name string, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	if strings.ContainsAny(trimmed, "/?#\\") {
		return "", fmt.Errorf("%s %q contains invalid characters", name, raw)
	}
	if trimmed == "." || trimmed == ".." {
		return "", fmt.Errorf("%s %q is not a valid identifier", name, raw)
	}
	return trimmed, nil
}
