// Package pipeline orchestrates the full poster build: catalog lookup,
// cover loading, layer rendering, and artifact encoding, with caching at
// every stage. Both the CLI and the preview server drive it.
package pipeline

import (
	"encoding/json"
	"time"

	"github.com/mhuels/posterforge/pkg/config"
	"github.com/mhuels/posterforge/pkg/errors"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatORA = "ora"
)

// Options describes one pipeline run.
type Options struct {
	// Config is the full poster description.
	Config config.Config

	// Formats lists the artifacts to encode. Defaults to PNG.
	Formats []string

	// Refresh bypasses the artifact cache and re-renders.
	Refresh bool

	// SkipCatalog disables the remote catalog lookup; only cover URLs
	// from the config are used.
	SkipCatalog bool

	// validated tracks whether ValidateAndSetDefaults has run.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent; Execute calls it on entry.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	for _, f := range o.Formats {
		if f != FormatPNG && f != FormatORA {
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q", f)
		}
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// configHash fingerprints everything that affects the rendered output.
func (o *Options) configHash() (string, error) {
	data, err := json.Marshal(o.Config)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hashing config")
	}
	return hashBytes(data), nil
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Artifacts maps format to encoded bytes.
	Artifacts map[string][]byte

	// Covers is the volume-to-URL mapping the render used.
	Covers map[int]string

	// ConfigHash fingerprints the config that produced the artifacts.
	ConfigHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats carries per-stage timings and counts for logging and the API.
type Stats struct {
	FetchTime  time.Duration
	RenderTime time.Duration
	EncodeTime time.Duration

	Entries      int
	Volumes      int
	CoversMapped int
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	ArtifactHit bool
}
