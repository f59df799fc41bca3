package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillweave/pkg/errors"
	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/pipeline"
)

// drawOpts holds the flags of the draw command.
type drawOpts struct {
	selected string // node ID to highlight
	noColor  bool   // plain text even on a color terminal
	ids      bool   // list node IDs instead of drawing
}

// drawCommand creates the draw command, which prints the box diagram.
func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw <composition>",
		Short: "Draw a composition as a box diagram in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, comp, err := c.loadComposition(ctx, args[0], runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			g := runner.Layout(ctx, comp, layout.Options{Selected: opts.selected, Theme: c.cfg().Theme})
			if opts.selected != "" {
				if _, ok := g.Find(opts.selected); !ok {
					return errors.New(errors.ErrCodeNotFound, "no node with id %q (see --ids)", opts.selected)
				}
			}
			if opts.ids {
				for _, n := range g.Nodes {
					fmt.Fprintf(c.Out, "%-5s %-9s %s\n", n.ID, n.Type, n.Label)
				}
				return nil
			}

			ro := pipeline.RenderOptions{Format: pipeline.FormatText}
			if profile := c.colorProfile(); !opts.noColor && profile != termenv.Ascii {
				ro = pipeline.RenderOptions{Format: pipeline.FormatANSI, Profile: profile}
			}
			data, err := runner.RenderGraph(ctx, g, ro)
			if err != nil {
				return err
			}
			_, err = c.Out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.selected, "select", "", "highlight the node with this ID")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colors")
	cmd.Flags().BoolVar(&opts.ids, "ids", false, "list node IDs, types, and labels")
	return cmd
}

// colorProfile detects the color support of the output, honoring NO_COLOR.
func (c *CLI) colorProfile() termenv.Profile {
	return termenv.NewOutput(c.Out).EnvColorProfile()
}

// exportCommand creates the export command for node-link diagrams.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "export <composition>",
		Short: "Export a composition as a Graphviz DOT or SVG diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != pipeline.FormatDOT && format != pipeline.FormatSVG {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be dot or svg)", format)
			}
			ctx := cmd.Context()
			runner, comp, err := c.loadComposition(ctx, args[0], runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			data, err := runner.Render(ctx, comp, pipeline.RenderOptions{
				Format:   format,
				Theme:    c.cfg().Theme,
				Detailed: detailed,
			})
			if err != nil {
				return err
			}
			if output == "" {
				output = derivePath(args[0], "."+format)
			}
			return c.writeOutput(output, data)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <composition>.<format>, - for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add node types and IDs to labels")
	return cmd
}

// derivePath replaces the extension of input with suffix.
func derivePath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput writes data to path, or to the command output for "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess(c.Out, "Wrote %s", filepath.Base(path))
	printFile(c.Out, path)
	return nil
}
