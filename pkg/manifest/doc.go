// Package manifest loads composition documents and builds them into
// composition trees.
//
// A composition document is a YAML, TOML or JSON file describing a tree of
// skills. All three formats decode to the same shape:
//
//	name: release
//	skills:
//	  lint: ./skills/lint
//	  test: github:acme/skills/testing@v1
//	configs:
//	  prod: { env: production }
//	root:
//	  sequence:
//	    - lint
//	    - parallel: [test, ./skills/audit]
//	    - branch:
//	        when: tests pass
//	        then: { hydrate: { use: prod, node: ./skills/deploy } }
//	        else: ./skills/notify
//
// Every node has exactly one of the keys skill, sequence, parallel, branch
// or hydrate. A bare string is shorthand for a skill node; it names an
// entry in skills or is itself a reference understood by [source.ParseRef].
//
// # Building
//
// [Build] resolves each distinct reference once, concurrently, and then
// assembles the tree with the compose constructors. Structural errors
// (EMPTY_CHILDREN, MISSING_CONDITION and so on) come from those
// constructors unchanged. Hydrations naming a shared config with use all
// attach the same [compose.Config].
package manifest
