// Package pkg provides the core libraries for skillweave skill composition.
//
// # Overview
//
// skillweave composes reusable agent skills into a tree of sequences,
// parallel groups, conditional branches and configured (hydrated) steps,
// then explains, draws or synthesizes the result. The pkg directory is
// organized into three areas:
//
//  1. Composition model: [compose], [describe], [layout]
//  2. Output: [render/textgrid], [render/nodelink], [synth]
//  3. Plumbing: [source], [manifest], [pipeline], [cache], [httputil],
//     [integrations], [observability], [errors]
//
// # Architecture
//
// The typical data flow:
//
//	Composition document (YAML/JSON/TOML)
//	         ↓
//	    [manifest] (decode, resolve skill references via [source])
//	         ↓
//	    [compose] tree
//	         ↓
//	    [describe] / [layout] → [render/textgrid] or [render/nodelink]
//	         ↓
//	    [synth] (one SKILL.md document)
//
// [pipeline] ties these steps together and is shared by the CLI and the
// HTTP server.
//
// # Quick Start
//
//	lint := compose.MustLeaf(compose.SkillDef{Name: "lint", Instructions: "Run linters."})
//	test := compose.MustLeaf(compose.SkillDef{Name: "test", Instructions: "Run tests."})
//	root := compose.MustSequence(lint, test)
//
//	d := describe.Describe(root)
//	fmt.Println(d.Outline)
//
//	g := layout.Compute(root, layout.Options{})
//	textgrid.Render(g).WriteANSI(os.Stdout, termenv.Ascii)
//
// [compose]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/compose
// [describe]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/describe
// [layout]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/layout
// [render/textgrid]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/render/textgrid
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/render/nodelink
// [synth]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/synth
// [source]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/source
// [manifest]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/manifest
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/httputil
// [integrations]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/integrations
// [observability]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/skillweave/pkg/errors
package pkg
