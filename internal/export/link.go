package export

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/opencode-ai/mailassist/internal/catalog"
)

// ErrInvalidBaseURL is returned when a link base is not an absolute URL.
var ErrInvalidBaseURL = errors.New("link base must be an absolute URL")

// Link is the state a shareable link carries: a template id and a template language.
// Variable values are never part of a link.
type Link struct {
	ID   string
	Lang catalog.Lang
}

// BuildLink returns base (origin and path only) with id and lang query parameters.
// An unsupported lang is left out.
func BuildLink(base, id string, lang catalog.Lang) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}

	link := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	if link.Path == "" {
		link.Path = "/"
	}
	query := url.Values{}
	query.Set("id", id)
	if parsed, ok := catalog.ParseLang(string(lang)); ok {
		query.Set("lang", string(parsed))
	}
	link.RawQuery = query.Encode()
	return link.String(), nil
}

// ParseLink reads a link from a full URL or a bare query string such as "?id=x&lang=en".
// A lang other than fr or en is dropped.
func ParseLink(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Link{}, nil
	}

	var query url.Values
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Link{}, fmt.Errorf("invalid link: %w", err)
		}
		query = u.Query()
	} else {
		parsed, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
		if err != nil {
			return Link{}, fmt.Errorf("invalid link query: %w", err)
		}
		query = parsed
	}

	link := Link{ID: strings.TrimSpace(query.Get("id"))}
	if lang, ok := catalog.ParseLang(query.Get("lang")); ok {
		link.Lang = lang
	}
	return link, nil
}

// IsZero reports whether the link selects nothing.
func (l Link) IsZero() bool {
	return l.ID == "" && l.Lang == ""
}
