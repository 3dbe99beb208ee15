// Package regalloc assigns storage registers to the variables of a method
// body.
//
// Allocation runs on a program the caller owns exclusively, typically a
// fresh ir.Copy, because it inserts phi copies and overwrites
// Variable.Register. Liveness is computed per block with bit sets and feeds
// an interference graph that decides which phi copies can share a register
// with their receiver.
package regalloc
