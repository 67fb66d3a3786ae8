package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/posterforge/pkg/config"
	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/schedule"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	title   string // catalog title, overrides the config's manga_title
	volumes []int  // volume numbers, overrides the config's schedule
	noCache bool   // disable caching
	redis   string // Redis address for the cache backend
}

// fetchCommand creates the fetch command for catalog lookups without rendering.
func (c *CLI) fetchCommand() *cobra.Command {
	var volumesStr string
	opts := fetchOpts{}

	cmd := &cobra.Command{
		Use:   "fetch [config.toml]",
		Short: "Look up cover URLs on the catalog without rendering",
		Long: `Look up cover URLs on the catalog without rendering.

The fetch command resolves the title to a MangaDex manga and reports
the cover URL for each requested volume. Title and volumes come from
the config file, or from --title and --volumes directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if volumesStr != "" {
				vols, err := parseVolumes(volumesStr)
				if err != nil {
					return err
				}
				opts.volumes = vols
			}
			configPath := ""
			if len(args) > 0 {
				configPath = args[0]
			}
			return c.runFetch(cmd.Context(), configPath, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "catalog title to search for")
	cmd.Flags().StringVar(&volumesStr, "volumes", "", "volume numbers (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address for caching (e.g. localhost:6379)")

	return cmd
}

// runFetch resolves title and volumes, queries the catalog, and prints the mapping.
func (c *CLI) runFetch(ctx context.Context, configPath string, opts *fetchOpts) error {
	title := opts.title
	volumes := opts.volumes

	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if title == "" {
			title = cfg.MangaTitle
		}
		if len(volumes) == 0 {
			volumes = schedule.Volumes(cfg.Entries())
		}
	}
	if title == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no title: pass --title or a config with manga_title")
	}
	if len(volumes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no volumes: pass --volumes or a config with a schedule")
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.redis)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, fmt.Sprintf("Searching catalog for %q", title))
	spin.Start()
	covers, err := runner.Catalog.FetchCovers(ctx, title, volumes)
	spin.Stop()
	if err != nil {
		return err
	}

	printInfo("Covers for %s", StyleHighlight.Render(title))
	vols := make([]int, 0, len(covers))
	for v := range covers {
		vols = append(vols, v)
	}
	sort.Ints(vols)
	for _, v := range vols {
		printCover(v, covers[v])
	}
	for _, v := range volumes {
		if _, ok := covers[v]; !ok {
			printWarning("no cover found for volume %d", v)
		}
	}
	printSuccess("Found %d of %d covers", len(covers), len(volumes))
	return nil
}

// parseVolumes parses a comma-separated list of volume numbers.
func parseVolumes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	vols := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v <= 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid volume number %q", p)
		}
		vols = append(vols, v)
	}
	return vols, nil
}
