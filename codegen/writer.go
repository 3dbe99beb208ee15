package codegen

import (
	"io"
	"strings"

	"github.com/wippyai/teajs/model"
)

// SourceWriter emits generated source text with indentation. In minified
// mode optional whitespace, soft newlines and indentation are dropped.
//
// The first write error is kept and every later call becomes a no-op;
// check Err once rendering is done.
type SourceWriter struct {
	out      io.Writer
	naming   *NamingStrategy
	minified bool

	indent    int
	lineStart bool
	err       error
}

// NewSourceWriter creates a writer emitting to out.
func NewSourceWriter(out io.Writer, naming *NamingStrategy, minified bool) *SourceWriter {
	return &SourceWriter{out: out, naming: naming, minified: minified, lineStart: true}
}

// Naming returns the naming strategy used by AppendClass and friends.
func (w *SourceWriter) Naming() *NamingStrategy { return w.naming }

// Minified reports whether the writer drops optional whitespace.
func (w *SourceWriter) Minified() bool { return w.minified }

// Err returns the first write error.
func (w *SourceWriter) Err() error { return w.err }

// Append writes s verbatim.
func (w *SourceWriter) Append(s string) *SourceWriter {
	if w.err != nil || s == "" {
		return w
	}
	if w.lineStart {
		w.lineStart = false
		if !w.minified && w.indent > 0 {
			w.write(strings.Repeat("    ", w.indent))
		}
	}
	w.write(s)
	return w
}

// AppendClass writes the alias of a class.
func (w *SourceWriter) AppendClass(className string) *SourceWriter {
	return w.Append(w.naming.NameFor(className))
}

// AppendMethodBody writes the global name of a method body.
func (w *SourceWriter) AppendMethodBody(method model.MethodReference) *SourceWriter {
	return w.Append(w.naming.FullNameFor(method))
}

// AppendMethod writes the member name of a virtual method.
func (w *SourceWriter) AppendMethod(method model.MethodReference) *SourceWriter {
	return w.Append(w.naming.NameForMethod(method))
}

// AppendField writes the property name of a field.
func (w *SourceWriter) AppendField(field model.FieldReference) *SourceWriter {
	return w.Append(w.naming.NameForField(field))
}

// AppendVariable writes the local name of a register.
func (w *SourceWriter) AppendVariable(register int) *SourceWriter {
	return w.Append(w.naming.VariableName(register))
}

// Ws writes a single space unless minified.
func (w *SourceWriter) Ws() *SourceWriter {
	if w.minified {
		return w
	}
	return w.Append(" ")
}

// NewLine ends the current line.
func (w *SourceWriter) NewLine() *SourceWriter {
	if w.err != nil {
		return w
	}
	w.write("\n")
	w.lineStart = true
	return w
}

// SoftNewLine ends the current line unless minified.
func (w *SourceWriter) SoftNewLine() *SourceWriter {
	if w.minified {
		return w
	}
	return w.NewLine()
}

// Indent increases the indentation of following lines.
func (w *SourceWriter) Indent() *SourceWriter {
	w.indent++
	return w
}

// Outdent decreases the indentation of following lines.
func (w *SourceWriter) Outdent() *SourceWriter {
	if w.indent > 0 {
		w.indent--
	}
	return w
}

func (w *SourceWriter) write(s string) {
	if _, err := io.WriteString(w.out, s); err != nil {
		w.err = err
	}
}
