package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jgiet001-AI/NetDocGen/internal/config"
	"github.com/Jgiet001-AI/NetDocGen/pkg/generate"
	"github.com/Jgiet001-AI/NetDocGen/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	formats      string // comma-separated output formats
	outputDir    string // directory for rendered documents
	title        string // document title override
	branding     string // path to a branding JSON file
	template     string // path to a template JSON file
	supplemental string // path to a supplemental answers JSON file
	configPath   string // optional TOML config file
	noEnrich     bool
	noCache      bool
	refresh      bool
}

// generateCommand creates the generate command, which runs the full
// parse → enrich → generate pipeline on a local diagram.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <diagram.vsdx>",
		Short: "Generate documentation from a Visio diagram",
		Long: `Generate network documentation from a Visio diagram. Each requested
format is written to the output directory as document.<ext>.

Examples:
  netdocgen generate network.vsdx
  netdocgen generate network.vsdx -f html,pdf,markdown -d ./docs
  netdocgen generate network.vsdx --branding acme.json --title "Acme Campus"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "formats", "f", generate.FormatHTML, "comma-separated formats: "+strings.Join(generate.Formats(), ","))
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "d", ".", "directory for generated documents")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title (derived from filename if empty)")
	cmd.Flags().StringVar(&opts.branding, "branding", "", "organization branding JSON file")
	cmd.Flags().StringVar(&opts.template, "template", "", "template configuration JSON file")
	cmd.Flags().StringVar(&opts.supplemental, "supplemental", "", "supplemental answers JSON file")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path")
	cmd.Flags().BoolVar(&opts.noEnrich, "no-enrich", false, "skip default values for missing device properties")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, input string, opts generateOpts) error {
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

	pipeOpts := pipeline.Options{
		Input:      input,
		SkipEnrich: opts.noEnrich,
		Refresh:    opts.refresh,
		Formats:    parseFormats(opts.formats),
		Title:      opts.title,
		Logger:     logger,
	}
	if err := loadJSONFile(opts.branding, &pipeOpts.Branding); err != nil {
		return err
	}
	if err := loadJSONFile(opts.template, &pipeOpts.Template); err != nil {
		return err
	}
	if err := loadJSONFile(opts.supplemental, &pipeOpts.Supplemental); err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := runner.Execute(cmd.Context(), pipeOpts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return err
	}
	for _, format := range pipeOpts.Formats {
		path := filepath.Join(opts.outputDir, "document."+format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		logger.Info("wrote document", "format", format, "path", path)
	}
	prog.done(fmt.Sprintf("Generated %d documents from %d devices", len(pipeOpts.Formats), result.Stats.DeviceCount))

	return nil
}

// loadJSONFile decodes a JSON file into dst when path is set.
func loadJSONFile(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
