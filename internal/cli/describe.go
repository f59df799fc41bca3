package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/skillweave/pkg/describe"
	"github.com/matzehuels/skillweave/pkg/pipeline"
)

// describeCommand creates the describe command.
func (c *CLI) describeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe <composition>",
		Short: "Print the outline, skills, patterns, and depth of a composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, comp, err := c.loadComposition(ctx, args[0], runnerOpts{})
			if err != nil {
				return err
			}
			defer runner.Close()

			d := runner.Describe(ctx, comp)
			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			return writeDescription(c.Out, comp, d)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the description as JSON")
	return cmd
}

// writeDescription prints d in the terminal layout used by describe.
func writeDescription(w io.Writer, comp *pipeline.Composition, d *describe.Description) error {
	fmt.Fprintln(w, StyleTitle.Render(comp.Name()))
	if comp.Document != nil && comp.Document.Description != "" {
		fmt.Fprintln(w, StyleDim.Render(comp.Document.Description))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, d.Outline)
	fmt.Fprintln(w)

	printKeyValue(w, "Patterns", patternList(d))
	printKeyValue(w, "Depth", fmt.Sprint(d.MaxDepth))
	printKeyValue(w, "Skills", fmt.Sprint(len(d.Skills)))
	fmt.Fprintln(w)

	for _, s := range d.Skills {
		fmt.Fprintln(w, StyleTitle.Render(s.Name))
		if s.Description != "" {
			printDetail(w, "%s", s.Description)
		}
		printDetail(w, "source: %s", s.Source)
		for i, cfg := range s.Hydrations {
			printDetail(w, "config %d: %s", i+1, inlineConfig(cfg.Values()))
		}
	}
	return nil
}

func patternList(d *describe.Description) string {
	patterns := d.Patterns.Sorted()
	if len(patterns) == 0 {
		return "single skill"
	}
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

// inlineConfig renders values as one line of flow-style YAML with sorted keys.
func inlineConfig(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + inlineValue(values[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func inlineValue(v any) string {
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	flow(node)
	out, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(string(out))
}

func flow(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = yaml.FlowStyle
	}
	for _, child := range n.Content {
		flow(child)
	}
}
