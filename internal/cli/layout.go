package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/skillweave/pkg/layout"
	"github.com/matzehuels/skillweave/pkg/pipeline"
)

// layoutCommand creates the layout command, which writes the positioned
// graph as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		selected string
	)

	cmd := &cobra.Command{
		Use:   "layout <composition>",
		Short: "Compute the layout of a composition and write it as JSON",
		Long: `Compute box positions and connector paths for a composition and write
them as JSON. The file can be drawn by other tools or fed to a web view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, comp, err := c.loadComposition(ctx, args[0], runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			g := runner.Layout(ctx, comp, layout.Options{Selected: selected, Theme: c.cfg().Theme})
			data, err := runner.RenderGraph(ctx, g, pipeline.RenderOptions{Format: pipeline.FormatJSON})
			if err != nil {
				return err
			}
			if output == "" {
				output = derivePath(args[0], ".layout.json")
			}
			if err := c.writeOutput(output, data); err != nil {
				return err
			}
			if output != "-" {
				printStats(c.Out, comp.Stats.SkillCount, len(g.Nodes), false)
				printNextStep(c.Out, "Draw it", appName+" draw "+args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <composition>.layout.json, - for stdout)")
	cmd.Flags().StringVar(&selected, "select", "", "mark the node with this ID as selected")
	return cmd
}
