package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TagName is the metadata key under which assets store their version range.
const TagName = "VersionRange"

// Field names of the exported struct text.
const (
	fieldIntroVersion = "IntroVersion"
	fieldHasSunset    = "bHasSunsetVersion"
	fieldSunset       = "SunsetVersion"
	fieldMajor        = "MajorVersion"
	fieldMinor        = "MinorVersion"

	textTrue  = "True"
	textFalse = "False"
)

// ErrMalformedTag is returned when a tag value cannot be decoded into a VersionRange.
var ErrMalformedTag = errors.New("malformed version range tag")

// EncodeTag renders r in the host's struct export text, e.g.
// (IntroVersion=(MajorVersion=2,MinorVersion=0),bHasSunsetVersion=False,SunsetVersion=(MajorVersion=99999,MinorVersion=0)).
// Field order and boolean spelling are fixed, so a range has exactly one encoding.
func EncodeTag(r VersionRange) string {
	hasSunset := textFalse
	if r.HasSunset {
		hasSunset = textTrue
	}

	return fmt.Sprintf("(%s=%s,%s=%s,%s=%s)",
		fieldIntroVersion, encodeVersion(r.Intro),
		fieldHasSunset, hasSunset,
		fieldSunset, encodeVersion(r.Sunset))
}

// DecodeTag parses the output of EncodeTag. Fields may come in any order and
// absent fields keep the defaults of NewVersionRange(Version{}), down to single
// components of a nested version. Negative components are malformed.
func DecodeTag(value string) (VersionRange, error) {
	p := &tagParser{input: value}

	root, err := p.parseStruct()
	if err != nil {
		return VersionRange{}, err
	}

	p.skipSpace()

	if !p.done() {
		return VersionRange{}, p.errorf("unexpected trailing text")
	}

	result := NewVersionRange(Version{})

	for name, node := range root {
		switch name {
		case fieldIntroVersion:
			result.Intro, err = decodeVersion(node, result.Intro)
		case fieldSunset:
			result.Sunset, err = decodeVersion(node, result.Sunset)
		case fieldHasSunset:
			result.HasSunset, err = decodeBool(node)
		default:
			err = fmt.Errorf("%w: unknown field %q", ErrMalformedTag, name)
		}

		if err != nil {
			return VersionRange{}, err
		}
	}

	return result, nil
}

func encodeVersion(v Version) string {
	return fmt.Sprintf("(%s=%d,%s=%d)", fieldMajor, v.Major, fieldMinor, v.Minor)
}

// decodeVersion overlays the fields present in node on defaults.
func decodeVersion(node *tagNode, defaults Version) (Version, error) {
	if node.fields == nil {
		return Version{}, fmt.Errorf("%w: expected struct, got %q", ErrMalformedTag, node.atom)
	}

	result := defaults

	for name, field := range node.fields {
		if field.fields != nil {
			return Version{}, fmt.Errorf("%w: %s must be a number", ErrMalformedTag, name)
		}

		number, err := strconv.Atoi(field.atom)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %s: %w", ErrMalformedTag, name, err)
		}

		if number < 0 {
			return Version{}, fmt.Errorf("%w: %s must not be negative", ErrMalformedTag, name)
		}

		switch name {
		case fieldMajor:
			result.Major = number
		case fieldMinor:
			result.Minor = number
		default:
			return Version{}, fmt.Errorf("%w: unknown field %q", ErrMalformedTag, name)
		}
	}

	return result, nil
}

func decodeBool(node *tagNode) (bool, error) {
	if node.fields == nil {
		switch {
		case strings.EqualFold(node.atom, textTrue):
			return true, nil
		case strings.EqualFold(node.atom, textFalse):
			return false, nil
		}
	}

	return false, fmt.Errorf("%w: %s must be True or False", ErrMalformedTag, fieldHasSunset)
}

// tagNode is either an atom or a struct of named fields.
type tagNode struct {
	atom   string
	fields map[string]*tagNode
}

// tagParser is a recursive descent parser over the struct export text.
type tagParser struct {
	input string
	pos   int
}

func (p *tagParser) parseStruct() (map[string]*tagNode, error) {
	p.skipSpace()

	if !p.consume('(') {
		return nil, p.errorf("expected '('")
	}

	fields := make(map[string]*tagNode)

	p.skipSpace()

	if p.consume(')') {
		return fields, nil
	}

	for {
		name := p.parseIdent()
		if name == "" {
			return nil, p.errorf("expected field name")
		}

		if _, ok := fields[name]; ok {
			return nil, p.errorf("duplicate field %q", name)
		}

		p.skipSpace()

		if !p.consume('=') {
			return nil, p.errorf("expected '=' after %q", name)
		}

		node, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		fields[name] = node

		p.skipSpace()

		switch {
		case p.consume(','):
			continue
		case p.consume(')'):
			return fields, nil
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *tagParser) parseValue() (*tagNode, error) {
	p.skipSpace()

	if p.peek() == '(' {
		fields, err := p.parseStruct()
		if err != nil {
			return nil, err
		}

		return &tagNode{fields: fields}, nil
	}

	start := p.pos
	for !p.done() && p.peek() != ',' && p.peek() != ')' && p.peek() != '(' {
		p.pos++
	}

	atom := strings.TrimSpace(p.input[start:p.pos])
	if atom == "" {
		return nil, p.errorf("expected value")
	}

	return &tagNode{atom: atom}, nil
}

func (p *tagParser) parseIdent() string {
	p.skipSpace()

	start := p.pos
	for !p.done() {
		r := rune(p.input[p.pos])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		p.pos++
	}

	return p.input[start:p.pos]
}

func (p *tagParser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *tagParser) consume(c byte) bool {
	if p.peek() != c {
		return false
	}

	p.pos++

	return true
}

func (p *tagParser) peek() byte {
	if p.done() {
		return 0
	}

	return p.input[p.pos]
}

func (p *tagParser) done() bool {
	return p.pos >= len(p.input)
}

func (p *tagParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformedTag, fmt.Sprintf(format, args...), p.pos)
}
