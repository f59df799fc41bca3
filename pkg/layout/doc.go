// Package layout positions a composition tree on a character grid.
//
// # Overview
//
// [Compute] assigns every box-carrying node of a [compose.Node] tree a
// fixed-size box ([BoxWidth] x [BoxHeight] cells) at integer coordinates and
// builds a connector path between each parent and child box. The result is a
// [Graph] that [github.com/matzehuels/skillweave/pkg/render/textgrid] flattens
// into printable rows.
//
// Layout is recursive and depends on the node type. Subtree extents are
// measured bottom-up, coordinates are assigned top-down, and each box is
// centered horizontally over its subtree:
//
//   - Skill: its own box
//   - Sequence: children stacked below, [VSpacing] rows apart
//   - Concurrent: children side by side below, [HSpacing] columns apart
//   - Branch: then-subtree below on the left, else-subtree to its right
//   - Hydrated: no box; the child is laid out in its place and flagged
//
// # Connectors
//
// A connector leaves the parent at bottom-center and enters the child at
// top-center. It runs down to the turn row, takes a horizontal dogleg when
// the two centers differ, and ends in an arrow one row above the child box.
// Sequence connectors form the execution chain: the sequence box points at
// its first child and every child points at the next one. Each cell of a
// path carries a color interpolated in RGB between the endpoint colors.
//
// # Node IDs
//
// Ids come from an explicit [IDGenerator]. Without one, Compute uses a fresh
// [Counter] per call, so two calls on the same tree produce identical graphs.
//
// # Totality
//
// Compute never fails on a tree built by package compose. A nil root yields
// an empty graph.
package layout
