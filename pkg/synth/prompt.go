package synth

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/skillweave/pkg/compose"
	"github.com/matzehuels/skillweave/pkg/describe"
)

// SystemPrompt instructs the model how to merge a composition.
const SystemPrompt = `You write skill documents: Markdown instruction files an agent follows to perform a task.

You are given a composition of existing skills. The outline uses these markers:
- "SKILL:" names one component skill, followed by its description when it has one.
- "SEQUENCE (execute in order):" its numbered steps run in order, each after the previous one finished.
- "PARALLEL (execute concurrently):" its dashed steps are independent and may run in any order or at the same time.
- "BRANCH on condition:" is followed by the quoted condition. The steps under "THEN:" run only when the condition holds, the steps under "ELSE:" (if present) run otherwise.

Configurations have no marker in the outline. Under "# Skills" every skill lists the configurations applied to it as "Configuration 1:", "Configuration 2:" and so on, each a YAML block. A skill with several configurations is used at several places in the outline or wrapped in nested configurations; apply the values that belong to each use.

Write ONE self-contained skill that performs the whole composition. Keep every instruction of the component skills that still applies, substitute configuration values where the instructions refer to them, and make the control flow explicit. Start with YAML frontmatter holding name and description, then the instructions. Output only the document.`

// BuildPrompt renders req as the user message sent to the model: the
// target, the outline, the patterns and depth, then every skill with its
// configurations and instructions.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Target skill\n\nName: %s\n", req.Name)
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}

	d := req.Composition
	if d == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\n# Composition outline\n\n%s\n", d.Outline)

	b.WriteString("\n# Structure\n\n")
	patterns := d.Patterns.Sorted()
	if len(patterns) == 0 {
		b.WriteString("Patterns: single skill\n")
	} else {
		names := make([]string, len(patterns))
		for i, p := range patterns {
			names[i] = string(p)
		}
		fmt.Fprintf(&b, "Patterns: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&b, "Depth: %d\n", d.MaxDepth)

	b.WriteString("\n# Skills\n")
	for _, s := range d.Skills {
		writeSkill(&b, s)
	}
	return b.String()
}

func writeSkill(b *strings.Builder, s describe.SkillRecord) {
	fmt.Fprintf(b, "\n## %s\n\n", s.Name)
	if s.Description != "" {
		fmt.Fprintf(b, "Description: %s\n", s.Description)
	}
	if src := s.Source.String(); src != "" {
		fmt.Fprintf(b, "Source: %s\n", src)
	}
	for i, cfg := range s.Hydrations {
		fmt.Fprintf(b, "\nConfiguration %d:\n\n```yaml\n%s```\n", i+1, configYAML(cfg))
	}
	fmt.Fprintf(b, "\nInstructions:\n\n%s\n", strings.TrimSpace(s.Instructions))
}

func configYAML(cfg *compose.Config) string {
	out, err := yaml.Marshal(cfg.Values())
	if err != nil {
		return fmt.Sprintf("# unencodable configuration: %v\n", err)
	}
	return string(out)
}
