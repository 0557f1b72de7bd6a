package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DeafMist/news-radar/internal/models"
)

// ErrEmptyRegistry is returned when a registry file lists no sources.
var ErrEmptyRegistry = errors.New("feed registry is empty")

type registryFile struct {
	Sources []models.FeedSource `yaml:"sources"`
}

// Defaults returns a copy of the built-in registry.
func Defaults() []models.FeedSource {
	out := make([]models.FeedSource, len(defaultFeeds))
	copy(out, defaultFeeds)
	return out
}

// Load reads the registry from a YAML file, or uses the built-in list when
// path is empty, and routes every endpoint through proxy when one is set.
func Load(path, proxy string) ([]models.FeedSource, error) {
	list := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read feed registry %s: %w", path, err)
		}
		var rf registryFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("decode feed registry %s: %w", path, err)
		}
		if len(rf.Sources) == 0 {
			return nil, ErrEmptyRegistry
		}
		list = rf.Sources
	}

	out := make([]models.FeedSource, 0, len(list))
	for i, src := range list {
		src.Endpoint = strings.TrimSpace(src.Endpoint)
		src.Label = strings.TrimSpace(src.Label)
		if src.Label == "" {
			return nil, fmt.Errorf("feed source #%d: label is required", i+1)
		}
		if err := validateEndpoint(src.Endpoint); err != nil {
			return nil, fmt.Errorf("feed source %q: %w", src.Label, err)
		}
		src.Endpoint = WithProxy(src.Endpoint, proxy)
		out = append(out, src)
	}
	return out, nil
}

// WithProxy embeds endpoint as a query parameter of a passthrough proxy such
// as "https://api.allorigins.win/raw?url=". An empty proxy leaves endpoint
// untouched.
func WithProxy(endpoint, proxy string) string {
	proxy = strings.TrimSpace(proxy)
	if proxy == "" {
		return endpoint
	}
	return proxy + url.QueryEscape(endpoint)
}

func validateEndpoint(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: unsupported scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", raw)
	}
	return nil
}
