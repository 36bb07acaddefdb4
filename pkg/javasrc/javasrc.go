// Package javasrc builds a shallow model of Java source files: the package,
// imports, classes, methods and the annotations on each. Method bodies and
// field initialisers are skipped, so the model is cheap to build and
// tolerant of language features it does not understand.
package javasrc

import (
	"bytes"
	"io/fs"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/cockroachdb/errors"
)

// File is a parsed compilation unit.
type File struct {
	Path    string
	Package string
	Imports []string
	Classes []*Class
}

// Class is a type declaration. Kind is one of class, interface, enum,
// record or annotation.
type Class struct {
	Name        string
	Kind        string
	Line        int
	Annotations []Annotation
	Methods     []Method
	Classes     []*Class
}

// Method is a method declaration. Constructors are not recorded.
type Method struct {
	Name        string
	Line        int
	Annotations []Annotation
}

// Annotation is a single annotation use. A lone unnamed argument is stored
// under "value", matching Java semantics.
type Annotation struct {
	Name   string
	Params map[string]string
}

// Param returns a named argument.
func (a Annotation) Param(name string) (string, bool) {
	v, ok := a.Params[name]
	return v, ok
}

// Is reports whether the annotation is written as one of names.
func (a Annotation) Is(names ...string) bool {
	for _, n := range names {
		if a.Name == n {
			return true
		}
	}
	return false
}

// HasAnnotation reports whether any annotation on m is one of names.
func (m Method) HasAnnotation(names ...string) bool {
	_, ok := m.Annotation(names...)
	return ok
}

// Annotation returns the first annotation on m that is one of names.
func (m Method) Annotation(names ...string) (Annotation, bool) {
	for _, a := range m.Annotations {
		if a.Is(names...) {
			return a, true
		}
	}
	return Annotation{}, false
}

// AllClasses returns every class in the file, outer classes before their
// nested classes.
func (f *File) AllClasses() []*Class {
	var out []*Class
	var walk func([]*Class)
	walk = func(cs []*Class) {
		for _, c := range cs {
			out = append(out, c)
			walk(c.Classes)
		}
	}
	walk(f.Classes)
	return out
}

// ParseFile reads and parses path from fsys.
func ParseFile(fsys fs.FS, path string) (*File, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	f, err := Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	f.Path = path
	return f, nil
}

// Parse builds the model for one Java source file.
func Parse(src []byte) (*File, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	f := &File{}
	if err := p.file(f); err != nil {
		return nil, err
	}
	return f, nil
}

type token struct {
	kind rune
	text string
	line int
}

func (t token) is(s string) bool { return t.text == s }

func tokenize(src []byte) ([]token, error) {
	var s scanner.Scanner
	s.Init(bytes.NewReader(blankTextBlocks(src)))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanChars | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	s.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || ch == '$' || isLetter(ch) || (i > 0 && isDigit(ch))
	}
	var scanErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = errors.Newf("%s: %s", s.Position, msg)
		}
	}

	var toks []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		toks = append(toks, token{kind: tok, text: s.TokenText(), line: s.Position.Line})
	}
	if scanErr != nil {
		return nil, scanErr
	}
	return toks, nil
}

// blankTextBlocks replaces each """ text block with an empty string literal
// followed by the newlines it spanned, so positions after it keep their
// line numbers. Comments and ordinary literals are copied unchanged.
func blankTextBlocks(src []byte) []byte {
	if !bytes.Contains(src, []byte(`"""`)) {
		return src
	}
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		switch {
		case bytes.HasPrefix(src[i:], []byte("//")):
			end := bytes.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			out = append(out, src[i:i+end]...)
			i += end
		case bytes.HasPrefix(src[i:], []byte("/*")):
			end := bytes.Index(src[i+2:], []byte("*/"))
			if end < 0 {
				return append(out, src[i:]...)
			}
			out = append(out, src[i:i+2+end+2]...)
			i += 2 + end + 2
		case bytes.HasPrefix(src[i:], []byte(`"""`)):
			end := textBlockEnd(src, i+3)
			if end < 0 {
				return append(out, src[i:]...)
			}
			out = append(out, '"', '"')
			for n := bytes.Count(src[i:end], []byte("\n")); n > 0; n-- {
				out = append(out, '\n')
			}
			i = end
		case src[i] == '"' || src[i] == '\'':
			end := literalEnd(src, i)
			out = append(out, src[i:end]...)
			i = end
		default:
			out = append(out, src[i])
			i++
		}
	}
	return out
}

// textBlockEnd returns the offset just past the closing """ of a text block
// whose body starts at from, or -1 when it is unterminated.
func textBlockEnd(src []byte, from int) int {
	for j := from; j < len(src); j++ {
		if src[j] == '\\' {
			j++
			continue
		}
		if bytes.HasPrefix(src[j:], []byte(`"""`)) {
			return j + 3
		}
	}
	return -1
}

// literalEnd returns the offset just past the string or char literal that
// starts at i. Literals do not span lines.
func literalEnd(src []byte, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote, '\n':
			return j + 1
		}
	}
	return len(src)
}

func isLetter(ch rune) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= 0x80
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

var errEOF = errors.New("unexpected end of file")

type parser struct {
	toks []token
	pos  int
}

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) peek(n int) token {
	if p.pos+n >= len(p.toks) {
		return token{kind: scanner.EOF}
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.peek(0)
	p.pos++
	return t
}

// classKeyword reports whether the current token opens a type declaration.
func (p *parser) classKeyword() (string, bool) {
	t := p.peek(0)
	if t.kind != scanner.Ident {
		return "", false
	}
	switch t.text {
	case "class", "interface", "enum":
		return t.text, p.peek(1).kind == scanner.Ident
	case "record":
		// record is a contextual keyword: record Name( or record Name<
		n := p.peek(2)
		return t.text, p.peek(1).kind == scanner.Ident && (n.is("(") || n.is("<"))
	}
	return "", false
}

func (p *parser) file(f *File) error {
	var pending []Annotation
	for !p.eof() {
		t := p.peek(0)
		switch {
		case t.is("package"):
			p.next()
			f.Package = p.joinUntilSemicolon()
		case t.is("import"):
			p.next()
			f.Imports = append(f.Imports, p.joinUntilSemicolon())
		case t.is("@") && p.peek(1).is("interface"):
			p.next()
			c, err := p.class("annotation", pending)
			if err != nil {
				return err
			}
			f.Classes = append(f.Classes, c)
			pending = nil
		case t.is("@"):
			a, err := p.annotation()
			if err != nil {
				return err
			}
			pending = append(pending, a)
		case t.is(";"):
			p.next()
			pending = nil
		default:
			if kind, ok := p.classKeyword(); ok {
				c, err := p.class(kind, pending)
				if err != nil {
					return err
				}
				f.Classes = append(f.Classes, c)
				pending = nil
				continue
			}
			p.next()
		}
	}
	return nil
}

// joinUntilSemicolon consumes tokens up to and including ';' and returns
// them concatenated, keeping a space after "static".
func (p *parser) joinUntilSemicolon() string {
	var sb strings.Builder
	for !p.eof() {
		t := p.next()
		if t.is(";") {
			break
		}
		sb.WriteString(t.text)
		if t.is("static") {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

func (p *parser) annotation() (Annotation, error) {
	p.next() // @
	var name strings.Builder
	for {
		t := p.next()
		if t.kind != scanner.Ident {
			return Annotation{}, errors.Newf("line %d: malformed annotation", t.line)
		}
		name.WriteString(t.text)
		if !p.peek(0).is(".") || p.peek(1).kind != scanner.Ident {
			break
		}
		name.WriteString(p.next().text)
	}
	a := Annotation{Name: name.String(), Params: map[string]string{}}
	if !p.peek(0).is("(") {
		return a, nil
	}
	args, err := p.parenGroup()
	if err != nil {
		return Annotation{}, err
	}
	for _, seg := range splitArgs(args) {
		if len(seg) >= 2 && seg[0].kind == scanner.Ident && seg[1].is("=") {
			a.Params[seg[0].text] = joinValue(seg[2:])
		} else if len(seg) > 0 {
			a.Params["value"] = joinValue(seg)
		}
	}
	return a, nil
}

// parenGroup consumes a balanced (...) group and returns the inner tokens.
func (p *parser) parenGroup() ([]token, error) {
	open := p.next()
	depth := 1
	start := p.pos
	for !p.eof() {
		t := p.next()
		switch t.text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return p.toks[start : p.pos-1], nil
			}
		}
	}
	return nil, errors.Wrapf(errEOF, "unclosed '(' at line %d", open.line)
}

func splitArgs(toks []token) [][]token {
	var out [][]token
	depth, start := 0, 0
	for i, t := range toks {
		switch t.text {
		case "(", "{", "[":
			depth++
		case ")", "}", "]":
			depth--
		case ",":
			if depth == 0 {
				out = append(out, toks[start:i])
				start = i + 1
			}
		}
	}
	if start < len(toks) {
		out = append(out, toks[start:])
	}
	return out
}

func joinValue(toks []token) string {
	if len(toks) == 1 && toks[0].kind == scanner.String {
		if s, err := strconv.Unquote(toks[0].text); err == nil {
			return s
		}
	}
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.text)
	}
	return sb.String()
}

// skipBlock consumes a balanced {...} block starting at the current '{'.
func (p *parser) skipBlock() error {
	open := p.next()
	depth := 1
	for !p.eof() {
		switch p.next().text {
		case "{":
			depth++
		case "}":
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return errors.Wrapf(errEOF, "unclosed '{' at line %d", open.line)
}

// skipStatement consumes tokens through the next ';' outside any brackets.
// A '}' closing the enclosing body stops the skip without being consumed.
func (p *parser) skipStatement() error {
	depth := 0
	for !p.eof() {
		t := p.peek(0)
		switch t.text {
		case "(", "{", "[":
			depth++
		case ")", "]":
			depth--
		case "}":
			if depth == 0 {
				return nil
			}
			depth--
		case ";":
			if depth == 0 {
				p.next()
				return nil
			}
		}
		p.next()
	}
	return errEOF
}

func (p *parser) class(kind string, annotations []Annotation) (*Class, error) {
	kw := p.next()
	name := p.next()
	c := &Class{Name: name.text, Kind: kind, Line: kw.line, Annotations: annotations}

	// Skip generics, record components, extends and implements clauses.
	for !p.peek(0).is("{") {
		if p.eof() {
			return nil, errors.Wrapf(errEOF, "class %s has no body", c.Name)
		}
		if p.peek(0).is("(") {
			if _, err := p.parenGroup(); err != nil {
				return nil, err
			}
			continue
		}
		p.next()
	}
	p.next() // {

	if kind == "enum" {
		if err := p.skipStatement(); err != nil {
			return nil, err
		}
	}
	if err := p.body(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *parser) body(c *Class) error {
	var pending []Annotation
	for {
		if p.eof() {
			return errors.Wrapf(errEOF, "class %s is not closed", c.Name)
		}
		t := p.peek(0)
		switch {
		case t.is("}"):
			p.next()
			return nil
		case t.is("@") && p.peek(1).is("interface"):
			p.next()
			nested, err := p.class("annotation", pending)
			if err != nil {
				return err
			}
			c.Classes = append(c.Classes, nested)
			pending = nil
		case t.is("@"):
			a, err := p.annotation()
			if err != nil {
				return err
			}
			pending = append(pending, a)
		case t.is("{"):
			// initialiser block
			if err := p.skipBlock(); err != nil {
				return err
			}
			pending = nil
		case t.is(";"):
			p.next()
			pending = nil
		case t.is("="):
			if err := p.skipStatement(); err != nil {
				return err
			}
			pending = nil
		case t.kind == scanner.Ident && p.peek(1).is("("):
			p.next()
			if _, err := p.parenGroup(); err != nil {
				return err
			}
			if t.text != c.Name {
				c.Methods = append(c.Methods, Method{Name: t.text, Line: t.line, Annotations: pending})
			}
			pending = nil
			if err := p.methodTail(); err != nil {
				return err
			}
		default:
			if kind, ok := p.classKeyword(); ok {
				nested, err := p.class(kind, pending)
				if err != nil {
					return err
				}
				c.Classes = append(c.Classes, nested)
				pending = nil
				continue
			}
			p.next()
		}
	}
}

// methodTail skips a throws clause or default value and then either the
// method body or the terminating ';'.
func (p *parser) methodTail() error {
	for !p.eof() {
		t := p.peek(0)
		switch {
		case t.is("{"):
			return p.skipBlock()
		case t.is(";"):
			p.next()
			return nil
		case t.is("}"):
			return nil
		case t.is("("):
			if _, err := p.parenGroup(); err != nil {
				return err
			}
		default:
			p.next()
		}
	}
	return errEOF
}
