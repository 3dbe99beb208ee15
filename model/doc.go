// Package model holds the value-level vocabulary shared by every stage of the
// compiler: value types, method descriptors, method and field references,
// access levels and element modifiers.
//
// Types are written and parsed in the class-file descriptor syntax:
//
//	I, J, F, D, Z, B, S, C   primitives
//	V                        void (method results only)
//	Ljava/lang/String;       object
//	[I                       array
//
// A method reference is rendered as "owner.name(params)result", for example
// "java.lang.String.<init>([C)V".
package model
