package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillweave/pkg/pipeline"
)

// buildOpts holds the flags of the build command.
type buildOpts struct {
	output      string
	dryRun      bool
	preview     bool
	model       string
	name        string
	description string
	refresh     bool
	noCache     bool
}

// buildCommand creates the build command, which synthesizes one skill
// document from a composition.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build <composition>",
		Short: "Synthesize a single skill document from a composition",
		Long: `Describe a composition and ask the model to write one skill document
that carries out the whole workflow. Results are cached by prompt and model.

Use --dry-run to print the prompt without calling the model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, comp, err := c.loadComposition(ctx, args[0], runnerOpts{
				refresh: opts.refresh,
				noCache: opts.noCache,
				model:   opts.model,
			})
			if err != nil {
				return err
			}
			defer runner.Close()

			popts := pipeline.Options{
				Name:        opts.name,
				Description: opts.description,
				Output:      opts.output,
				DryRun:      opts.dryRun,
				Refresh:     opts.refresh,
			}

			var spin *Spinner
			if !opts.dryRun {
				spin = newSpinner(ctx, c.Err, fmt.Sprintf("Synthesizing %s...", comp.Name()))
				spin.Start()
			}
			res, err := runner.Build(ctx, comp, popts)
			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return err
			}

			if res.Output != "" {
				printSuccess(c.Out, "Built %s", res.Name)
				printFile(c.Out, res.Output)
				printStats(c.Out, comp.Stats.SkillCount, comp.Stats.NodeCount, res.Cached)
				if !opts.preview {
					return nil
				}
			}
			return c.printDocument(res.Document, opts.preview && !opts.dryRun)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the document to this file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the prompt without calling the model")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "render the document as formatted markdown")
	cmd.Flags().StringVar(&opts.model, "model", "", "model to synthesize with (default from config)")
	cmd.Flags().StringVar(&opts.name, "name", "", "name of the synthesized skill (default: composition name)")
	cmd.Flags().StringVar(&opts.description, "description", "", "description of the synthesized skill")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached skills and documents")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	return cmd
}

// printDocument writes doc to the command output, rendered with glamour
// when preview is set.
func (c *CLI) printDocument(doc string, preview bool) error {
	if preview {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		out, err := r.Render(doc)
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		_, err = fmt.Fprint(c.Out, out)
		return err
	}
	_, err := fmt.Fprintln(c.Out, strings.TrimRight(doc, "\n"))
	return err
}
