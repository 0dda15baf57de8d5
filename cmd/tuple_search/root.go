package main

import (
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/internal/engine"
	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/metrics"
	"github.com/gcbaptista/go-tuple-search/internal/persistence"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions holds the global flags of every command.
type rootOptions struct {
	configPath string
	dataDir    string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "tuple_search",
		Short: "Structural search over tuple documents",
		Long: `tuple_search indexes documents made of tuples of cells (RDF-like triples)
and answers Boolean, fuzzy and cell-scoped queries over them.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides storage.dataDir)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newLoadCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig reads the configuration and applies the command-line overrides.
func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.Storage.DataDir = o.dataDir
	}
	return cfg, nil
}

// openEngine loads every index under the configured data directory.
func openEngine(cfg *config.AppConfig, m *metrics.Metrics) (*engine.Engine, error) {
	codec, err := persistence.ParseCodec(cfg.Storage.Codec)
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(cfg.Storage.DataDir,
		engine.WithCodec(codec),
		engine.WithMetrics(m),
		engine.WithLogger(logger.WithComponent("engine")),
	), nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("tuple_search " + version)
		},
	}
}
