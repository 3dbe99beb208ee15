// Package optimize runs control-flow simplifications over the method bodies
// of a class set.
//
// Passes rewrite block references only through ir.BlockMapper, so they stay
// correct for every terminator kind. The default pipeline forwards edges
// through blocks that only jump elsewhere and then drops the blocks no
// longer reachable from the entry.
package optimize
