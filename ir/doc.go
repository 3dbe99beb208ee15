// Package ir provides the control-flow-graph intermediate representation
// every compiler stage operates on.
//
// A Program owns an ordered list of BasicBlocks, each identified by a stable
// index. A block holds an ordered list of Phi nodes followed by an ordered
// list of Instructions whose last element is the control-transfer
// terminator.
//
// # Ownership
//
// Instructions and phis are created detached. They become part of the graph
// only through the Insert/Add/Replace operations of a block container, which
// transfer ownership and fail with a conflict error if the element already
// belongs to a block. Remove, Replace and Clear release ownership, after
// which the element may be inserted elsewhere.
//
// A Program is mutated only through its own blocks; Copy produces an
// independent program so parallel stages never share blocks.
//
// # Rewriting block references
//
// The instruction set is closed: every kind implements Accept(Visitor), and
// Visitor has one method per kind. BlockMapper implements every method
// explicitly and remaps every block reference in a program (branch targets,
// jump targets, switch tables, phi incoming sources), so passes that move or
// renumber blocks never enumerate edge-bearing kinds themselves.
package ir
