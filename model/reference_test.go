package model

import (
	"errors"
	"testing"

	teaerrors "github.com/wippyai/teajs/errors"
)

func TestParseValueType(t *testing.T) {
	tests := []struct {
		desc string
		name string
	}{
		{"I", "int"},
		{"Z", "boolean"},
		{"Ljava/lang/String;", "java.lang.String"},
		{"[C", "char[]"},
		{"[[Ljava/lang/Object;", "java.lang.Object[][]"},
		{"V", "void"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			vt, err := ParseValueType(tt.desc)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.desc, err)
			}
			if vt.Name() != tt.name {
				t.Fatalf("expected name %q, got %q", tt.name, vt.Name())
			}
			if vt.Descriptor() != tt.desc {
				t.Fatalf("expected descriptor %q, got %q", tt.desc, vt.Descriptor())
			}
		})
	}
}

func TestParseValueType_Invalid(t *testing.T) {
	for _, desc := range []string{"", "Q", "Ljava/lang/String", "[V", "II"} {
		if _, err := ParseValueType(desc); !errors.Is(err, teaerrors.ErrInvalidInput) {
			t.Errorf("ParseValueType(%q): expected invalid input, got %v", desc, err)
		}
	}
}

func TestParseMethodReference(t *testing.T) {
	ref, err := ParseMethodReference("org.example.Main.main([Ljava/lang/String;)V")
	if err != nil {
		t.Fatal(err)
	}
	if ref.ClassName != "org.example.Main" {
		t.Fatalf("expected class org.example.Main, got %s", ref.ClassName)
	}
	if ref.Name() != "main" {
		t.Fatalf("expected name main, got %s", ref.Name())
	}
	if len(ref.Descriptor.Params) != 1 || ref.Descriptor.Params[0].Name() != "java.lang.String[]" {
		t.Fatalf("unexpected params %v", ref.Descriptor.Params)
	}
	if ref.String() != "org.example.Main.main([Ljava/lang/String;)V" {
		t.Fatalf("round trip mismatch: %s", ref.String())
	}
}

func TestParseMethodReference_Constructor(t *testing.T) {
	ref, err := ParseMethodReference("java.lang.String.<init>([C)V")
	if err != nil {
		t.Fatal(err)
	}
	want := NewMethodReference("java.lang.String", "<init>", ArrayOf(CharacterType), VoidType)
	if ref.String() != want.String() {
		t.Fatalf("expected %s, got %s", want, ref)
	}
}

func TestParseMethodReference_Invalid(t *testing.T) {
	for _, s := range []string{"main()V", "Main.main", "Main.main(V)V", "Main.(I)V"} {
		if _, err := ParseMethodReference(s); err == nil {
			t.Errorf("expected error for %q", s)
		}
	}
}

func TestElementModifier_Has(t *testing.T) {
	m := Static | Final
	if !m.Has(Static) || !m.Has(Final) {
		t.Fatal("expected static and final")
	}
	if m.Has(Abstract) {
		t.Fatal("unexpected abstract")
	}
}
