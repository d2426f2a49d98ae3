// Package commands holds the CLI subcommands registered on the app.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"takeoff/config"
	"takeoff/logging"
	"takeoff/services"
)

// TakeoffOptions are the flags of the takeoff command.
type TakeoffOptions struct {
	Walls    bool
	Elements bool
	Type     string
	Format   string
	Out      string
}

// NewTakeoffCommand builds `takeoff <file.json>...`, which runs the
// extraction over model files on disk and prints the chosen export.
func NewTakeoffCommand(cfg *config.Config, logger *zap.Logger) *cobra.Command {
	opts := &TakeoffOptions{}
	logger = logging.Or(logger)

	cmd := &cobra.Command{
		Use:   "takeoff <file.json>...",
		Short: "Compute quantities from model property files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.Out != "" {
				f, err := os.Create(opts.Out)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			return RunTakeoff(cmd.Context(), cfg, logger, args, opts, out)
		},
	}

	cmd.Flags().BoolVar(&opts.Walls, "walls", false, "export the wall takeoff instead of the per-type summary")
	cmd.Flags().BoolVar(&opts.Elements, "elements", false, "export one row per element instead of the per-type summary")
	cmd.Flags().StringVar(&opts.Type, "type", "", "keep only element types containing this text (case-insensitive)")
	cmd.Flags().StringVar(&opts.Format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

// RunTakeoff loads the files, runs the engine and writes the export.
func RunTakeoff(ctx context.Context, cfg *config.Config, logger *zap.Logger, files []string, opts *TakeoffOptions, out io.Writer) error {
	if opts.Format != "csv" && opts.Format != "json" {
		return fmt.Errorf("unsupported format %q: use csv or json", opts.Format)
	}
	if opts.Walls && opts.Elements {
		return fmt.Errorf("--walls and --elements are exclusive")
	}
	if cfg == nil {
		cfg = config.FromMap(nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	models, err := loadModelFiles(files)
	if err != nil {
		return err
	}
	types, err := cfg.TypeResolver()
	if err != nil {
		return err
	}
	engine := services.NewEngine(types, cfg.WallOptions(), logger)
	src := services.StaticSource(models)

	var text string
	if opts.Walls {
		summary, report, err := engine.Walls.Summarize(ctx, src)
		if err != nil {
			return err
		}
		logReport(logger, report)
		if opts.Format == "csv" {
			text, err = services.ToDelimitedText(summary.Walls, services.WallDetailColumns())
		} else {
			text, err = services.ToStructuredText(summary)
		}
		if err != nil {
			return err
		}
	} else {
		elements, report, err := engine.Elements.ExtractElements(ctx, src)
		if err != nil {
			return err
		}
		logReport(logger, report)
		if opts.Type != "" {
			elements = services.FilterByType(elements, opts.Type)
		}
		text, err = renderElements(elements, opts)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(out, text)
	return err
}

// renderElements writes the element detail or the per-type summary.
func renderElements(elements []services.NormalizedElement, opts *TakeoffOptions) (string, error) {
	if opts.Elements {
		if opts.Format == "csv" {
			return services.ToDelimitedText(elements, services.ElementDetailColumns())
		}
		return services.ToStructuredText(elements)
	}
	summaries := services.GroupAndSummarize(elements)
	if opts.Format == "csv" {
		return services.ToDelimitedText(summaries, services.TypeSummaryColumns())
	}
	return services.ToStructuredText(summaries)
}

func loadModelFiles(files []string) ([]*services.Model, error) {
	models := make([]*services.Model, 0, len(files))
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open model: %w", err)
		}
		imported, err := services.ParseModel(f, path)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		models = append(models, imported.Model)
	}
	return models, nil
}

func logReport(logger *zap.Logger, r *services.ExtractionReport) {
	if len(r.SkippedModels) > 0 {
		logger.Warn("Models without property data", zap.Strings("models", r.SkippedModels))
	}
	for _, f := range r.Failures {
		logger.Warn("Dropped element", zap.Error(f))
	}
}
