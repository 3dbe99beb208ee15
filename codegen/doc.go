// Package codegen provides the text side of code generation: alias
// providers that pick identifiers, a naming strategy that resolves
// references to declaring classes, and a SourceWriter with a minified
// mode.
//
// # Aliases
//
// DefaultAliasProvider produces readable, qualified names.
// MinifyingAliasProvider hands out a, b, ... aa, ab, ... in request order,
// skipping JavaScript keywords. Both are deterministic: the same sequence of
// requests yields the same aliases.
//
// # Writing
//
//	w := codegen.NewSourceWriter(&buf, naming, false)
//	w.Append("function").Ws().AppendMethodBody(ref).Append("()").Ws().Append("{").SoftNewLine()
//	w.Indent()
//	...
//	w.Outdent().Append("}").NewLine()
//	if err := w.Err(); err != nil { ... }
package codegen
