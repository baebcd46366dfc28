package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/yaklabco/regionfmt/pkg/fix"
	"github.com/yaklabco/regionfmt/pkg/textpos"
)

const (
	elemReplacements = "replacements"
	elemReplacement  = "replacement"
	elemCursor       = "cursor"

	attrIncomplete = "incomplete_format"
	attrOffset     = "offset"
	attrLength     = "length"
)

// parser walks the token stream of one report.
type parser struct {
	dec *xml.Decoder
}

// Parse reads a complete report from r. Any deviation from the format fails
// with an error wrapping ErrMalformedReport, and no partial report is
// returned.
func Parse(r io.Reader) (*Report, error) {
	p := &parser{dec: xml.NewDecoder(r)}
	p.dec.Strict = true

	root, err := p.prolog()
	if err != nil {
		return nil, err
	}

	rep := &Report{Incomplete: attrValue(root, attrIncomplete) == "true"}
	builder := fix.NewBuilder()

	if err := p.children(rep, builder); err != nil {
		return nil, err
	}
	if err := p.epilog(); err != nil {
		return nil, err
	}

	edits := builder.Edits()
	fix.SortEdits(edits)
	if err := fix.DetectConflicts(edits); err != nil {
		return nil, p.fail("replacements overlap", err)
	}
	rep.Edits = edits

	return rep, nil
}

// prolog skips the declaration and returns the root element.
func (p *parser) prolog() (xml.StartElement, error) {
	for {
		tok, err := p.token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, p.fail("empty report", nil)
			}
			return xml.StartElement{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != elemReplacements || t.Name.Space != "" {
				return xml.StartElement{}, p.failf("root element is <%s>, want <%s>", t.Name.Local, elemReplacements)
			}
			return t, nil
		case xml.CharData:
			if !isBlank(t) {
				return xml.StartElement{}, p.fail("text before root element", nil)
			}
		case xml.ProcInst, xml.Comment:
		default:
			return xml.StartElement{}, p.failf("unexpected %T before root element", tok)
		}
	}
}

// children consumes everything up to the root's end element.
func (p *parser) children(rep *Report, builder *fix.Builder) error {
	for {
		tok, err := p.token()
		if err != nil {
			return p.eof(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case elemReplacement:
				if err := p.replacement(t, builder); err != nil {
					return err
				}
			case elemCursor:
				cursor, err := p.cursor(t)
				if err != nil {
					return err
				}
				rep.Cursor = &cursor
			default:
				return p.failf("unknown element <%s>", t.Name.Local)
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if !isBlank(t) {
				return p.failf("unexpected text %q in <%s>", truncate(string(t)), elemReplacements)
			}
		case xml.Comment:
		default:
			return p.failf("unexpected %T in <%s>", tok, elemReplacements)
		}
	}
}

// epilog checks that nothing but whitespace and comments follows the root.
func (p *parser) epilog() error {
	for {
		tok, err := p.token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.CharData:
			if !isBlank(t) {
				return p.fail("text after root element", nil)
			}
		case xml.Comment, xml.ProcInst:
		default:
			return p.failf("unexpected %T after root element", tok)
		}
	}
}

func (p *parser) replacement(start xml.StartElement, builder *fix.Builder) error {
	var (
		offset, length       int
		hasOffset, hasLength bool
	)

	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case attrOffset, attrLength:
			n, err := p.number(attr.Value)
			if err != nil {
				return p.failf("<%s> attribute %s=%q", elemReplacement, attr.Name.Local, attr.Value)
			}
			if attr.Name.Local == attrOffset {
				if hasOffset {
					return p.failf("<%s> repeats %s", elemReplacement, attrOffset)
				}
				offset, hasOffset = n, true
			} else {
				if hasLength {
					return p.failf("<%s> repeats %s", elemReplacement, attrLength)
				}
				length, hasLength = n, true
			}
		default:
			return p.failf("<%s> has unknown attribute %s", elemReplacement, attr.Name.Local)
		}
	}
	if !hasOffset {
		return p.failf("<%s> is missing %s", elemReplacement, attrOffset)
	}
	if !hasLength {
		return p.failf("<%s> is missing %s", elemReplacement, attrLength)
	}
	if length > math.MaxInt-offset {
		return p.failf("<%s> %s=%d %s=%d ends past the largest offset", elemReplacement, attrOffset, offset, attrLength, length)
	}

	text, err := p.text(elemReplacement)
	if err != nil {
		return err
	}

	builder.Replace(textpos.ByteOffset(offset), length, text)
	return nil
}

func (p *parser) cursor(start xml.StartElement) (textpos.ByteOffset, error) {
	if len(start.Attr) > 0 {
		return 0, p.failf("<%s> takes no attributes", elemCursor)
	}

	text, err := p.text(elemCursor)
	if err != nil {
		return 0, err
	}

	n, err := p.number(strings.TrimSpace(text))
	if err != nil {
		return 0, p.failf("<%s> value %q", elemCursor, truncate(text))
	}
	return textpos.ByteOffset(n), nil
}

// text reads the single character data payload of a leaf element up to its
// end element. Adjacent text and CDATA sections form one payload.
func (p *parser) text(elem string) (string, error) {
	var (
		builder  strings.Builder
		runs     int
		lastText bool
	)
	for {
		tok, err := p.token()
		if err != nil {
			return "", p.eof(err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if !lastText {
				runs++
			}
			if runs > 1 {
				return "", p.failf("<%s> has more than one text payload", elem)
			}
			builder.Write(t)
			lastText = true
		case xml.EndElement:
			return builder.String(), nil
		case xml.StartElement:
			return "", p.failf("<%s> nested in <%s>", t.Name.Local, elem)
		case xml.Comment:
			lastText = false
		default:
			return "", p.failf("unexpected %T in <%s>", tok, elem)
		}
	}
}

func (p *parser) number(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// token returns the next token; syntax errors are reported as malformed.
func (p *parser) token() (xml.Token, error) {
	tok, err := p.dec.Token()
	if err == nil {
		return tok, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return nil, p.fail("invalid XML", err)
	}
	return nil, err
}

// eof turns an unexpected end of input into a malformed report.
func (p *parser) eof(err error) error {
	if errors.Is(err, io.EOF) {
		return p.fail("unexpected end of report", nil)
	}
	return err
}

func (p *parser) fail(reason string, err error) error {
	line, col := p.dec.InputPos()
	return &MalformedError{Line: line, Column: col, Reason: reason, Err: err}
}

func (p *parser) failf(format string, args ...any) error {
	return p.fail(fmt.Sprintf(format, args...), nil)
}

func attrValue(elem xml.StartElement, name string) string {
	for _, attr := range elem.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func isBlank(data xml.CharData) bool {
	return strings.TrimSpace(string(data)) == ""
}

func truncate(s string) string {
	const limit = 40
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
