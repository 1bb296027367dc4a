package items

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/httputil"
)

const fetchNamespace = "manifest"

// Fetcher downloads manifests over HTTP and caches the raw response.
type Fetcher struct {
	Client  *http.Client
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Refresh bool
}

// NewFetcher creates a fetcher with a 30s client timeout. A nil cache
// disables caching.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: 30 * time.Second},
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Logger: logger,
	}
}

// Fetch downloads and parses the manifest at rawURL. The format is inferred
// from the URL path.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Manifest, error) {
	data, err := f.fetchRaw(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(rawURL)
	format, err := FormatFromName(u.Path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

func (f *Fetcher) fetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	key := f.Keyer.HTTPKey(fetchNamespace, rawURL)
	if !f.Refresh {
		if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
			f.Logger.Debug("manifest cache hit", "url", rawURL)
			return data, nil
		}
	}

	f.Logger.Debug("downloading manifest", "url", rawURL)
	data, err := httputil.Get(ctx, f.Client, rawURL)
	if err != nil {
		return nil, err
	}
	if err := f.Cache.Set(ctx, key, data, cache.TTLHTTP); err != nil {
		f.Logger.Warn("failed to cache manifest", "url", rawURL, "error", err)
	}
	return data, nil
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
