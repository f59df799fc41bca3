package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/source"
)

// resolveCommand creates the resolve command, which fetches and prints one
// skill reference.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		asJSON  bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <ref>",
		Short: "Resolve a skill reference and print the skill",
		Long: `Resolve a skill reference and print the skill it names.

References:
  ./skills/lint                  local directory holding SKILL.md
  ./skills/review.md             local file
  github:acme/skills/lint@v1     path in a GitHub repository at a ref
  https://example.com/lint.md    plain URL`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, runnerOpts{refresh: refresh})
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			def, err := source.ResolveString(ctx, runner.Resolver, args[0])
			if err != nil {
				return err
			}
			prog.done("Resolved " + def.Name)

			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(skillJSON{
					Name:         def.Name,
					Description:  def.Description,
					Source:       def.Source.String(),
					Metadata:     def.Metadata,
					Instructions: def.Instructions,
				})
			}
			writeSkill(c, def)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the skill as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached skills")
	return cmd
}

type skillJSON struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Source       string           `json:"source"`
	Metadata     compose.Metadata `json:"metadata,omitempty"`
	Instructions string           `json:"instructions"`
}

func writeSkill(c *CLI, def compose.SkillDef) {
	fmt.Fprintln(c.Out, StyleTitle.Render(def.Name))
	if def.Description != "" {
		printDetail(c.Out, "%s", def.Description)
	}
	printKeyValue(c.Out, "Source", def.Source.String())

	keys := make([]string, 0, len(def.Metadata))
	for k := range def.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printKeyValue(c.Out, k, inlineValue(def.Metadata[k]))
	}

	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, def.Instructions)
}
