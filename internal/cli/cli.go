// Package cli implements the cardpress command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/buildinfo"
	"github.com/matzehuels/cardpress/pkg/cache"
	"github.com/matzehuels/cardpress/pkg/config"
	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/pipeline"
	"github.com/matzehuels/cardpress/pkg/render/card"
	"github.com/matzehuels/cardpress/pkg/resource"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cardpress"
)

// fontExtensions is the probe order for fonts in the fonts directory.
var fontExtensions = []string{"ttf", "otf"}

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config; empty means discover in the working directory
	workers    int    // --workers; <= 0 means GOMAXPROCS
	noCache    bool   // --no-cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Cardpress renders trading cards and tiles them onto print sheets",
		Long: `Cardpress turns a spreadsheet of card descriptions into print-ready card
images, then arranges copies of them on pages for printing and cutting.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: ./"+config.TOMLName+" or ./"+config.FlatName+")")
	flags.IntVar(&c.workers, "workers", 0, "concurrent cards or pages (default: number of CPUs)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	root.AddCommand(c.cardsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.backCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig reads the --config file, or the first config file found in the
// working directory, or the defaults.
func (c *CLI) loadConfig() (config.File, error) {
	path := c.configPath
	if path == "" {
		path = config.Discover(".")
	}
	if path == "" {
		return config.Default(), nil
	}
	f, err := config.Load(path)
	if err != nil {
		return config.File{}, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return f, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cache, err := newCache(c.noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	runner.Workers = c.workers
	return runner, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newComposer creates a card composer that loads fonts and foreground
// images from the directories named in f.
func newComposer(f config.File) (*card.Composer, error) {
	lib := fonts.NewLibrary(resource.NewDirResolver(f.Paths.FontsPath(), fontExtensions...))
	images := resource.NewDirResolver(f.Paths.ImagesPath(), resource.ImageExtensions...)
	return card.NewComposer(f.Card, lib, images)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cardpress/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
