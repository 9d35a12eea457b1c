package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/codegraph/codeintel/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused
	date    = "unknown" //nolint:unused
)

func main() {
	app := &cli.App{
		Name:    "codeintel",
		Usage:   "Cross-language code intelligence: symbols, calls, and relationships",
		Version: version,
		Description: `codeintel indexes a source tree with tree-sitter, extracts symbols and
their relationships (calls, implements, extends), and answers lookup
queries from the metadata store written at index time.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file (TOML, YAML, or JSON)", EnvVars: []string{"CODEINTEL_CONFIG"}},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format: text, json"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write output to file instead of stdout"},
			&cli.StringFlag{Name: "state-dir", Value: ".codeintel", Usage: "Directory holding the symbol cache and metadata store"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored text output"},
		},
		Before: loadConfigInto,
		Commands: []*cli.Command{
			indexCmd(),
			findCmd(),
			callersCmd(),
			calleesCmd(),
			implementationsCmd(),
			impactCmd(),
			auditCmd(),
			mcpCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

var cfg *config.Config

// loadConfigInto loads configuration before any command runs, from
// --config when given or the standard search locations otherwise, and
// lets it supply the state-dir default when the flag wasn't set explicitly.
func loadConfigInto(c *cli.Context) error {
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault()
	}
	if err != nil {
		return err
	}
	if !c.IsSet("state-dir") {
		return c.Set("state-dir", cfg.Cache.Dir)
	}
	return nil
}

func stateDir(c *cli.Context) string { return c.String("state-dir") }

func cachePath(c *cli.Context) string   { return stateDir(c) + "/" + cfg.Cache.SymbolsFile }
func metaPath(c *cli.Context) string    { return stateDir(c) + "/" + cfg.Cache.MetadataFile }
func resolvePath(c *cli.Context) string { return stateDir(c) + "/" + cfg.Resolution.File }
