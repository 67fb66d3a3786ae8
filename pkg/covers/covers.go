// Package covers loads volume cover art for the compositor.
package covers

import (
	"bytes"
	"context"
	"image"

	// Cover art arrives as JPEG or PNG.
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"

	"github.com/mhuels/posterforge/pkg/cache"
	"github.com/mhuels/posterforge/pkg/httputil"
)

// HTTPLoader downloads cover art by URL with byte-level caching. It
// implements the compositor's loader contract: every failure is a miss,
// never an error, so a dead link costs one empty frame and nothing more.
type HTTPLoader struct {
	client *httputil.Client
	keyer  cache.Keyer
	urls   map[int]string
	logger *log.Logger
}

// NewHTTPLoader creates a loader over the volume-to-URL mapping. The
// mapping is owned by the loader instance, so concurrent renders with
// different mappings do not interfere.
func NewHTTPLoader(c cache.Cache, k cache.Keyer, urls map[int]string, logger *log.Logger) *HTTPLoader {
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &HTTPLoader{
		// Some cover hosts reject requests without a browser user agent.
		client: httputil.NewClient(c, k, map[string]string{"User-Agent": "Mozilla/5.0"}),
		keyer:  k,
		urls:   urls,
		logger: logger,
	}
}

// Load fetches and decodes the cover for a volume. Unknown volumes,
// download failures, and undecodable payloads all report a miss.
func (l *HTTPLoader) Load(ctx context.Context, volume int) (image.Image, bool) {
	url, ok := l.urls[volume]
	if !ok || url == "" {
		return nil, false
	}

	data, err := l.client.GetBytes(ctx, l.keyer.CoverKey(url), url, cache.CoverTTL)
	if err != nil {
		l.logger.Warn("cover download failed", "volume", volume, "err", err)
		return nil, false
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		l.logger.Warn("cover decode failed", "volume", volume, "err", err)
		return nil, false
	}
	return img, true
}
