package codegen

import (
	"strconv"
	"strings"

	"github.com/wippyai/teajs/model"
)

// AliasProvider chooses the identifiers under which classes, methods and
// fields appear in generated code. An alias, once returned, is stable for
// the provider's lifetime. Providers are not safe for concurrent use.
type AliasProvider interface {
	ClassAlias(className string) string
	MethodAlias(method model.MethodReference) string
	FieldAlias(field model.FieldReference) string
}

// DefaultAliasProvider derives readable aliases from qualified names:
// "java.lang.String" becomes "java_lang_String", method "<init>" becomes
// "$init". Overloads of one name in one class get numeric suffixes in the
// order they are first requested.
type DefaultAliasProvider struct {
	classes map[string]string
	members map[string]string   // qualified member -> alias
	used    map[string]struct{} // class + "|" + alias
}

var _ AliasProvider = (*DefaultAliasProvider)(nil)

// NewDefaultAliasProvider creates a readable alias provider.
func NewDefaultAliasProvider() *DefaultAliasProvider {
	return &DefaultAliasProvider{
		classes: make(map[string]string),
		members: make(map[string]string),
		used:    make(map[string]struct{}),
	}
}

// ClassAlias implements AliasProvider.
func (p *DefaultAliasProvider) ClassAlias(className string) string {
	if alias, ok := p.classes[className]; ok {
		return alias
	}
	alias := sanitize(className)
	p.classes[className] = alias
	return alias
}

// MethodAlias implements AliasProvider.
func (p *DefaultAliasProvider) MethodAlias(method model.MethodReference) string {
	name := method.Name()
	switch name {
	case "<init>":
		name = "$init"
	case "<clinit>":
		name = "$clinit"
	default:
		name = sanitize(name)
	}
	return p.member(method.ClassName, method.String(), name)
}

// FieldAlias implements AliasProvider.
func (p *DefaultAliasProvider) FieldAlias(field model.FieldReference) string {
	return p.member(field.ClassName, "field:"+field.String(), "$"+sanitize(field.FieldName))
}

func (p *DefaultAliasProvider) member(className, key, base string) string {
	if alias, ok := p.members[key]; ok {
		return alias
	}
	alias := base
	for n := 1; ; n++ {
		if _, taken := p.used[className+"|"+alias]; !taken {
			break
		}
		alias = base + strconv.Itoa(n)
	}
	p.used[className+"|"+alias] = struct{}{}
	p.members[key] = alias
	return alias
}

// sanitize maps a qualified name onto identifier characters.
func sanitize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// MinifyingAliasProvider hands out the shortest available identifiers in
// request order. Class aliases start with "$" so they never collide with
// minified local variable names.
type MinifyingAliasProvider struct {
	classes map[string]string
	members map[string]string
	next    int
}

var _ AliasProvider = (*MinifyingAliasProvider)(nil)

// NewMinifyingAliasProvider creates a minifying alias provider.
func NewMinifyingAliasProvider() *MinifyingAliasProvider {
	return &MinifyingAliasProvider{
		classes: make(map[string]string),
		members: make(map[string]string),
	}
}

// ClassAlias implements AliasProvider.
func (p *MinifyingAliasProvider) ClassAlias(className string) string {
	if alias, ok := p.classes[className]; ok {
		return alias
	}
	alias := "$" + p.nextName()
	p.classes[className] = alias
	return alias
}

// MethodAlias implements AliasProvider.
func (p *MinifyingAliasProvider) MethodAlias(method model.MethodReference) string {
	return p.member(method.String())
}

// FieldAlias implements AliasProvider.
func (p *MinifyingAliasProvider) FieldAlias(field model.FieldReference) string {
	return p.member("field:" + field.String())
}

func (p *MinifyingAliasProvider) member(key string) string {
	if alias, ok := p.members[key]; ok {
		return alias
	}
	alias := p.nextName()
	p.members[key] = alias
	return alias
}

func (p *MinifyingAliasProvider) nextName() string {
	for {
		name := ShortName(p.next)
		p.next++
		if !reserved[name] {
			return name
		}
	}
}

const (
	startLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	partLetters  = startLetters + "0123456789"
)

// ShortName returns the n-th identifier of the sequence a..Z, aa..Z9, ...
func ShortName(n int) string {
	var b []byte
	b = append(b, startLetters[n%len(startLetters)])
	n /= len(startLetters)
	for n > 0 {
		n--
		b = append(b, partLetters[n%len(partLetters)])
		n /= len(partLetters)
	}
	return string(b)
}

// reserved lists JavaScript keywords and literals of up to three letters
// plus a few longer ones the sequence reaches in large programs.
var reserved = map[string]bool{
	"do": true, "if": true, "in": true, "for": true, "let": true, "new": true,
	"try": true, "var": true, "NaN": true, "int": true, "case": true,
	"else": true, "enum": true, "eval": true, "null": true, "this": true,
	"true": true, "void": true, "with": true, "byte": true, "char": true,
	"goto": true, "long": true, "break": true, "catch": true, "class": true,
	"const": true, "false": true, "super": true, "throw": true, "while": true,
	"yield": true, "await": true,
}
