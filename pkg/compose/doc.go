// Package compose defines the composition tree: how skills combine.
//
// # Overview
//
// A skill is a small instruction document. Authors combine skills into a
// tree whose inner nodes say how their children relate at run time of the
// target workflow:
//
//   - [Skill]: a leaf holding one instruction document
//   - [Sequence]: children execute in strict order
//   - [Concurrent]: children execute without ordering constraint
//   - [Branch]: a condition selecting between a required and an optional subtree
//   - [Hydrated]: a subtree annotated with extra configuration
//
// [Node] is a closed sum type. Its marker method is unexported, so the five
// variants above are the only implementations and a type switch over them is
// exhaustive. Consumers (the describer, the layout engine) switch on the
// concrete type and never see anything else.
//
// # Construction
//
// Every variant is created by a validating constructor that fails fast with a
// coded [errors.Error] and never returns a partially built node:
//
//	lint, _ := compose.Leaf(compose.SkillDef{Name: "lint", Instructions: "Run the linter."})
//	test, _ := compose.Leaf(compose.SkillDef{Name: "test", Instructions: "Run the tests."})
//	root, err := compose.NewSequence(lint, test)
//
// The Must variants panic instead and are meant for static trees in tests
// and examples.
//
// # Immutability
//
// Nodes are immutable after construction. Constructors copy their slice and
// map arguments, accessors return copies, and composing always returns new
// nodes. A tree can therefore be shared freely and read concurrently.
//
// # Configuration Identity
//
// A [Config] is a pointer type. Attaching the same *Config to several
// subtrees (via [HydrateWith]) is observable by consumers: the describer
// records a given config object at most once per skill, while two distinct
// configs with equal contents are both kept.
package compose
