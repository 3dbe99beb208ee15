// Package decompile rebuilds statement trees from register-allocated IR.
//
// Variables are referred to by register, so the tree is only meaningful
// after register allocation. A method with a single exit block decompiles
// to a flat statement list. Anything with control flow decompiles to a
// DispatchLoop:
//
//	$block = 0
//	loop:
//	    switch $block:
//	    case 0: ...; [moves]; goto 2
//	    case 1: ...
//
// Phi moves are emitted on each edge as one MoveStatement whose copies
// happen simultaneously. Moves whose source and target registers coincide
// are omitted.
package decompile
