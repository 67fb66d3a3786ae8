package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/posterforge/pkg/config"
	"github.com/mhuels/posterforge/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (single format) or base path (multiple)
	formats   []string // output formats: "png", "ora"
	noCache   bool     // disable caching entirely
	refresh   bool     // bypass the artifact cache and re-render
	noCatalog bool     // skip the catalog lookup, use config cover URLs only
	redis     string   // Redis address for the cache backend
}

// renderCommand creates the render command for generating posters.
// It reads a TOML config, resolves cover art through the catalog, and
// writes one artifact per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [config.toml]",
		Short: "Render a release-schedule poster from a config file",
		Long: `Render a release-schedule poster from a config file.

The render command reads a TOML poster config, looks up cover art on
MangaDex for the scheduled volumes, composites the poster, and writes
the requested formats. PNG is the flattened image; ORA is a layered
OpenRaster file editable in Krita or GIMP.

Covers, catalog responses, and finished artifacts are cached locally
for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), ora (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and re-render")
	cmd.Flags().BoolVar(&opts.noCatalog, "no-catalog", false, "skip the catalog lookup, use config cover URLs only")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for caching (e.g. localhost:6379)")

	return cmd
}

// runRender loads the config, executes the pipeline, and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, configPath string, opts *renderOpts) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinner(ctx, fmt.Sprintf("Rendering %s", cfg.Title))
	spin.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Config:      cfg,
		Formats:     opts.formats,
		Refresh:     opts.refresh,
		SkipCatalog: opts.noCatalog,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d entries", result.Stats.Entries))

	base := basePath(opts.output, cfg)
	for _, format := range opts.formats {
		path := base + "." + format
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}

	printSuccess("Poster ready")
	printStats(result.Stats.Entries, result.Stats.Volumes, result.Stats.CoversMapped, result.CacheInfo.ArtifactHit)
	return nil
}

// basePath derives the extensionless output path from the --output flag
// and the config's output section. A format extension on the flag value
// is stripped so "poster.png" and "poster" behave the same.
func basePath(output string, cfg config.Config) string {
	if output == "" {
		name := strings.TrimSuffix(cfg.Output.Filename, filepath.Ext(cfg.Output.Filename))
		return filepath.Join(cfg.Output.Directory, name)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext == pipeline.FormatPNG || ext == pipeline.FormatORA {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// writeArtifact writes data to path, creating parent directories as needed.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
