package pipeline

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuels/posterforge/pkg/cache"
	"github.com/mhuels/posterforge/pkg/catalog"
	"github.com/mhuels/posterforge/pkg/config"
	"github.com/mhuels/posterforge/pkg/covers"
	"github.com/mhuels/posterforge/pkg/lineart"
	"github.com/mhuels/posterforge/pkg/poster"
	"github.com/mhuels/posterforge/pkg/poster/sink"
	"github.com/mhuels/posterforge/pkg/schedule"
)

func hashBytes(data []byte) string {
	return cache.Hash(data)
}

// CoverSource resolves cover URLs for a title. The MangaDex client is the
// production implementation.
type CoverSource interface {
	FetchCovers(ctx context.Context, title string, volumes []int) (map[int]string, error)
}

// Runner executes the poster pipeline with caching. It is stateless apart
// from its collaborators; one Runner can serve concurrent runs.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Catalog CoverSource
}

// NewRunner creates a runner. Nil cache disables caching, nil keyer uses
// the default scheme, nil logger uses the package default, and a nil
// catalog falls back to MangaDex.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Catalog: catalog.NewMangaDex(c, keyer, catalog.WithLogger(logger)),
	}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs fetch, render, and encode. Missing covers and catalog
// failures degrade the poster but never abort it; only configuration
// errors and encoding failures do.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hash, err := opts.configHash()
	if err != nil {
		return nil, err
	}
	result := &Result{
		Artifacts:  make(map[string][]byte),
		ConfigHash: hash,
	}

	if !opts.Refresh && r.loadCachedArtifacts(ctx, hash, opts.Formats, result) {
		r.Logger.Info("artifacts served from cache", "hash", hash[:12])
		result.CacheInfo.ArtifactHit = true
		return result, nil
	}

	cfg := opts.Config
	entries := cfg.Entries()
	vols := schedule.Volumes(entries)

	fetchStart := time.Now()
	result.Covers = r.resolveCovers(ctx, opts, vols)
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.Entries = len(entries)
	result.Stats.Volumes = len(vols)
	result.Stats.CoversMapped = len(result.Covers)

	r.Logger.Info("resolved covers",
		"volumes", len(vols),
		"mapped", len(result.Covers),
		"duration", result.Stats.FetchTime)

	posterOpts, err := cfg.PosterOptions()
	if err != nil {
		return nil, err
	}
	posterOpts.LineArt = r.loadLineArt(cfg)

	loader := covers.NewHTTPLoader(r.Cache, r.Keyer, result.Covers, r.Logger)

	renderStart := time.Now()
	layers, rc, err := poster.RenderLayers(ctx, entries, posterOpts, loader)
	if err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered layers",
		"layers", len(layers),
		"canvas", rc.Width,
		"duration", result.Stats.RenderTime)

	encodeStart := time.Now()
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatPNG:
			flat := poster.Flatten(rc, layers, posterOpts.Style.BackgroundColor)
			data, err = sink.EncodePNG(flat)
		case FormatORA:
			data, err = sink.EncodeORA(rc, layers, cfg.Output.DPI)
		}
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(hash, format), data, cache.ArtifactTTL)
	}
	result.Stats.EncodeTime = time.Since(encodeStart)

	r.Logger.Info("encoded artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)

	return result, nil
}

// loadCachedArtifacts fills result from the artifact cache. It succeeds
// only when every requested format is present.
func (r *Runner) loadCachedArtifacts(ctx context.Context, hash string, formats []string, result *Result) bool {
	for _, format := range formats {
		data, ok, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, format))
		if err != nil || !ok {
			return false
		}
		result.Artifacts[format] = data
	}
	return true
}

// resolveCovers merges catalog lookups with config overrides, overrides
// winning. Catalog failures are logged and leave the overrides in place.
func (r *Runner) resolveCovers(ctx context.Context, opts Options, vols []int) map[int]string {
	merged := make(map[int]string)

	if !opts.SkipCatalog && opts.Config.MangaTitle != "" && r.Catalog != nil {
		found, err := r.Catalog.FetchCovers(ctx, opts.Config.MangaTitle, vols)
		switch {
		case errors.Is(err, catalog.ErrTitleNotFound):
			r.Logger.Warn("title not in catalog", "title", opts.Config.MangaTitle)
		case err != nil:
			r.Logger.Warn("catalog lookup failed", "err", err)
		default:
			for vol, url := range found {
				merged[vol] = url
			}
		}
	}

	for vol, url := range opts.Config.CoverURLs() {
		merged[vol] = url
	}
	return merged
}

// loadLineArt reads the configured background asset. Any failure disables
// the layer and the render continues.
func (r *Runner) loadLineArt(cfg config.Config) image.Image {
	if !cfg.LineArt.Enabled || cfg.LineArt.Path == "" {
		return nil
	}
	img, err := lineart.Load(cfg.LineArt.Path)
	if err != nil {
		r.Logger.Warn("line art unavailable", "path", cfg.LineArt.Path, "err", err)
		return nil
	}
	return img
}
