package javascript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

// writeIRLog prints every class of set with its allocated method listings:
//
//	public class app.Main
//	    public static main(java.lang.String[])
//	        $0:
//	            return
//	        Register allocation:0:0
func writeIRLog(out io.Writer, set classes.ListableSource) error {
	w := bufio.NewWriter(out)
	for _, name := range set.ClassNames() {
		cls := set.Get(name)
		fmt.Fprintf(w, "%sclass %s\n", modifiers(cls.Level, cls.Modifiers), name)
		for _, m := range cls.Methods() {
			writeMethodLog(w, m)
		}
	}
	return w.Flush()
}

func writeMethodLog(w *bufio.Writer, m *classes.Method) {
	params := make([]string, len(m.Descriptor.Params))
	for i, p := range m.Descriptor.Params {
		params[i] = p.Name()
	}
	fmt.Fprintf(w, "    %s%s(%s)\n", modifiers(m.Level, m.Modifiers), m.Descriptor.Name, strings.Join(params, ", "))
	if !m.HasBody() {
		w.WriteString("\n")
		return
	}
	w.WriteString(ir.Listing(m.Program, "        "))
	w.WriteString("        Register allocation:")
	for i := 0; i < m.Program.VariableCount(); i++ {
		w.WriteString(strconv.Itoa(i) + ":" + strconv.Itoa(m.Program.VariableAt(i).Register) + " ")
	}
	w.WriteString("\n\n")
}

func modifiers(level model.AccessLevel, mods model.ElementModifier) string {
	var b strings.Builder
	switch level {
	case model.Private:
		b.WriteString("private ")
	case model.Protected:
		b.WriteString("protected ")
	case model.Public:
		b.WriteString("public ")
	}
	for _, m := range []struct {
		flag model.ElementModifier
		name string
	}{
		{model.Abstract, "abstract "},
		{model.Final, "final "},
		{model.Static, "static "},
		{model.Native, "native "},
	} {
		if mods.Has(m.flag) {
			b.WriteString(m.name)
		}
	}
	return b.String()
}
