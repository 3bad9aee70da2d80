package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// SourceBuiltin selects the catalog embedded in the binary.
const SourceBuiltin = "builtin"

const (
	fetchTimeout = 15 * time.Second
	maxFetchSize = 8 << 20
)

// LoadError reports a catalog that could not be fetched or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if cat.Variables == nil {
		cat.Variables = map[string]VariableDef{}
	}

	templates := make([]*Template, 0, len(cat.Templates))
	for _, tmpl := range cat.Templates {
		if tmpl == nil || strings.TrimSpace(tmpl.ID) == "" {
			continue
		}
		templates = append(templates, tmpl)
	}
	cat.Templates = templates

	return &cat, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	cat.Source = path
	return cat, nil
}

// Fetch downloads a catalog over HTTP.
func Fetch(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	cat.Source = url
	return cat, nil
}

// Load resolves source to a catalog. An empty source walks the search paths
// relative to projectDir and falls back to the builtin catalog.
func Load(ctx context.Context, source, projectDir string) (*Catalog, error) {
	source = strings.TrimSpace(source)
	switch {
	case source == "":
		return LoadFromSearchPaths(projectDir)
	case source == SourceBuiltin:
		return LoadBuiltin()
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return Fetch(ctx, nil, source)
	default:
		return LoadFile(source)
	}
}

// LoadOrEmpty loads a catalog and degrades to an empty one on failure.
// The returned error is the original load failure, for callers that want to report it.
func LoadOrEmpty(ctx context.Context, source, projectDir string, logger zerolog.Logger) (*Catalog, error) {
	cat, err := Load(ctx, source, projectDir)
	if err == nil {
		logger.Debug().
			Str("source", cat.Source).
			Int("templates", cat.Len()).
			Int("variables", len(cat.Variables)).
			Msg("catalog loaded")
		return cat, nil
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		err = &LoadError{Source: source, Err: err}
	}
	logger.Warn().Err(err).Str("source", source).Msg("catalog unavailable, continuing with no templates")
	return Empty(), err
}
