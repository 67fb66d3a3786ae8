package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhuels/posterforge/pkg/cache"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manga", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("title") == "Nonexistent" {
			w.Write([]byte(`{"result": "ok", "data": []}`))
			return
		}
		w.Write([]byte(`{
			"result": "ok",
			"data": [{"id": "abc-123", "attributes": {"title": {"en": "Some Manga"}}}]
		}`))
	})
	mux.HandleFunc("/cover", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc-123", r.URL.Query().Get("manga[]"))
		w.Write([]byte(`{
			"result": "ok",
			"data": [
				{"attributes": {"volume": "1", "fileName": "v1.jpg"}},
				{"attributes": {"volume": "1", "fileName": "v1-reprint.jpg"}},
				{"attributes": {"volume": "2", "fileName": "v2.png"}},
				{"attributes": {"volume": "", "fileName": "nocover.jpg"}},
				{"attributes": {"volume": "9", "fileName": "v9.jpg"}}
			]
		}`))
	})
	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, srv *httptest.Server) *MangaDex {
	t.Helper()
	return NewMangaDex(cache.NewNullCache(), cache.NewDefaultKeyer(),
		WithBaseURLs(srv.URL, "https://uploads.example.com"))
}

func TestSearchManga(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	id, err := newTestClient(t, srv).SearchManga(context.Background(), "Some Manga")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestSearchMangaNotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	_, err := newTestClient(t, srv).SearchManga(context.Background(), "Nonexistent")
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestFetchCovers(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	covers, err := newTestClient(t, srv).FetchCovers(context.Background(), "Some Manga", []int{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, map[int]string{
		1: "https://uploads.example.com/covers/abc-123/v1.jpg",
		2: "https://uploads.example.com/covers/abc-123/v2.png",
	}, covers, "volume 3 has no cover and volume 9 was not requested")
}

func TestFetchCoversNoVolumes(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	covers, err := newTestClient(t, srv).FetchCovers(context.Background(), "Some Manga", nil)
	require.NoError(t, err)
	assert.Empty(t, covers)
}

func TestFetchCoversUsesCache(t *testing.T) {
	srv := newTestServer(t)

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	client := NewMangaDex(fc, cache.NewDefaultKeyer(),
		WithBaseURLs(srv.URL, "https://uploads.example.com"))

	first, err := client.FetchCovers(context.Background(), "Some Manga", []int{1})
	require.NoError(t, err)

	// Responses are cached, so the lookup survives the server going away.
	srv.Close()
	second, err := client.FetchCovers(context.Background(), "Some Manga", []int{1})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
