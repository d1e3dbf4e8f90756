package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jgiet001-AI/NetDocGen/internal/config"
	"github.com/Jgiet001-AI/NetDocGen/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output     string // output file path (stdout if empty)
	configPath string // optional TOML config file
	noEnrich   bool   // skip filling defaults for missing properties
	noCache    bool   // disable the topology cache
	refresh    bool   // bypass cached topologies
}

// parseCommand creates the parse command, which extracts a topology
// from a Visio diagram and prints it as JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <diagram.vsdx>",
		Short: "Parse a Visio diagram into a network topology",
		Long: `Parse a Visio network diagram into a JSON topology of devices,
connections, and document metadata.

Examples:
  netdocgen parse network.vsdx
  netdocgen parse network.vsdx -o topology.json
  netdocgen parse network.vsdx --no-enrich`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path")
	cmd.Flags().BoolVar(&opts.noEnrich, "no-enrich", false, "skip default values for missing device properties")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")

	return cmd
}

func (c *CLI) runParse(cmd *cobra.Command, input string, opts parseOpts) error {
	logger := loggerFromContext(cmd.Context())

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	parsed, err := runner.Parse(cmd.Context(), pipeline.Options{
		Input:      input,
		SkipEnrich: opts.noEnrich,
		Refresh:    opts.refresh,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d shapes and %d connections", len(parsed.Shapes), len(parsed.Connections)))

	data, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if opts.output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	logger.Info("wrote topology", "path", opts.output)
	return nil
}
