// Package catalog looks up manga cover URLs on remote catalog services.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mhuels/posterforge/pkg/cache"
	"github.com/mhuels/posterforge/pkg/httputil"
)

// ErrTitleNotFound is returned when the catalog has no manga matching the
// requested title.
var ErrTitleNotFound = errors.New("title not found")

const (
	mangadexAPI     = "https://api.mangadex.org"
	mangadexUploads = "https://uploads.mangadex.org"
)

// MangaDex is a client for the MangaDex catalog API.
type MangaDex struct {
	client  *httputil.Client
	api     string
	uploads string
	logger  *log.Logger
}

// Option configures a MangaDex client.
type Option func(*MangaDex)

// WithBaseURLs overrides the API and upload hosts, for tests.
func WithBaseURLs(api, uploads string) Option {
	return func(m *MangaDex) {
		m.api = strings.TrimSuffix(api, "/")
		m.uploads = strings.TrimSuffix(uploads, "/")
	}
}

// WithLogger sets the logger used for per-volume progress.
func WithLogger(l *log.Logger) Option {
	return func(m *MangaDex) { m.logger = l }
}

// NewMangaDex creates a catalog client over the given cache backend.
func NewMangaDex(c cache.Cache, k cache.Keyer, opts ...Option) *MangaDex {
	m := &MangaDex{
		client:  httputil.NewClient(c, k, map[string]string{"User-Agent": "posterforge"}),
		api:     mangadexAPI,
		uploads: mangadexUploads,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type mangaSearchResponse struct {
	Result string `json:"result"`
	Data   []struct {
		ID         string `json:"id"`
		Attributes struct {
			Title map[string]string `json:"title"`
		} `json:"attributes"`
	} `json:"data"`
}

type coverListResponse struct {
	Result string `json:"result"`
	Data   []struct {
		Attributes struct {
			Volume   string `json:"volume"`
			FileName string `json:"fileName"`
		} `json:"attributes"`
	} `json:"data"`
}

// SearchManga resolves a title to its catalog id.
func (m *MangaDex) SearchManga(ctx context.Context, title string) (string, error) {
	q := url.Values{}
	q.Set("title", title)
	q.Set("limit", "1")
	searchURL := fmt.Sprintf("%s/manga?%s", m.api, q.Encode())

	var resp mangaSearchResponse
	if err := m.client.GetJSON(ctx, "mangadex", searchURL, cache.CatalogTTL, false, &resp); err != nil {
		if errors.Is(err, httputil.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrTitleNotFound, title)
		}
		return "", err
	}
	if resp.Result != "ok" || len(resp.Data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrTitleNotFound, title)
	}

	manga := resp.Data[0]
	if name, ok := manga.Attributes.Title["en"]; ok {
		m.logger.Debug("matched manga", "title", name, "id", manga.ID)
	}
	return manga.ID, nil
}

// VolumeCovers returns the cover URL per requested volume. Volumes the
// catalog has no cover for are simply absent from the result.
func (m *MangaDex) VolumeCovers(ctx context.Context, mangaID string, volumes []int) (map[int]string, error) {
	q := url.Values{}
	q.Set("manga[]", mangaID)
	q.Set("limit", "100")
	q.Set("order[volume]", "asc")
	coverURL := fmt.Sprintf("%s/cover?%s", m.api, q.Encode())

	var resp coverListResponse
	if err := m.client.GetJSON(ctx, "mangadex", coverURL, cache.CatalogTTL, false, &resp); err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(volumes))
	for _, v := range volumes {
		wanted[v] = true
	}

	covers := make(map[int]string)
	for _, c := range resp.Data {
		vol, err := strconv.Atoi(c.Attributes.Volume)
		if err != nil {
			continue
		}
		// First cover per volume wins; later variants are reprints.
		if !wanted[vol] || covers[vol] != "" || c.Attributes.FileName == "" {
			continue
		}
		covers[vol] = fmt.Sprintf("%s/covers/%s/%s", m.uploads, mangaID, c.Attributes.FileName)
		m.logger.Debug("found cover", "volume", vol)
	}

	for _, v := range volumes {
		if covers[v] == "" {
			m.logger.Warn("no cover in catalog", "volume", v)
		}
	}
	return covers, nil
}

// FetchCovers resolves a title and returns cover URLs for the requested
// volumes. A title miss or network failure returns an error; individual
// missing volumes do not.
func (m *MangaDex) FetchCovers(ctx context.Context, title string, volumes []int) (map[int]string, error) {
	if len(volumes) == 0 {
		return map[int]string{}, nil
	}
	id, err := m.SearchManga(ctx, title)
	if err != nil {
		return nil, err
	}
	return m.VolumeCovers(ctx, id, volumes)
}
