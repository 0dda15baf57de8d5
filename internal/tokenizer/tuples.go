package tokenizer

import (
	"strings"
	"unicode"

	"github.com/gcbaptista/go-tuple-search/internal/errors"
	"github.com/gcbaptista/go-tuple-search/model"
)

// ParseTuples parses an N-Triples-like body into tuples.
//
// A tuple is a sequence of cells terminated by '.'. A cell is either a quoted
// literal ("aaa ccc"), optionally followed by a language tag (@en) or a
// datatype (^^<uri>) which are dropped, a URI (<http://...>), or a bare token
// such as a blank node (_:b0). '#' outside a cell starts a comment running to
// the end of the line. Cells after the last '.' form a final tuple.
//
// Literal cells are returned unquoted with escapes resolved; URI cells keep
// their angle brackets.
func ParseTuples(text string) ([]model.Tuple, error) {
	p := &tupleParser{src: []rune(text), line: 1}
	return p.parse()
}

type tupleParser struct {
	src  []rune
	pos  int
	line int
}

func (p *tupleParser) parse() ([]model.Tuple, error) {
	tuples := make([]model.Tuple, 0)
	var current model.Tuple

	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.src) {
			break
		}

		switch r := p.src[p.pos]; {
		case r == '.':
			p.pos++
			if len(current) > 0 {
				tuples = append(tuples, current)
			}
			current = nil
		case r == '"':
			lit, err := p.literal()
			if err != nil {
				return nil, err
			}
			current = append(current, lit)
		case r == '<':
			uri, err := p.uri()
			if err != nil {
				return nil, err
			}
			current = append(current, uri)
		default:
			current = append(current, p.bare())
		}
	}

	if len(current) > 0 {
		tuples = append(tuples, current)
	}
	return tuples, nil
}

func (p *tupleParser) skipSpaceAndComments() {
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch {
		case r == '\n':
			p.line++
			p.pos++
		case unicode.IsSpace(r):
			p.pos++
		case r == '#':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *tupleParser) literal() (string, error) {
	start := p.line
	p.pos++ // opening quote

	var sb strings.Builder
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch r {
		case '"':
			p.pos++
			p.skipLiteralSuffix()
			return sb.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", errors.NewInvalidDocumentError(p.line, "dangling escape in literal")
			}
			p.pos++
			sb.WriteRune(unescape(p.src[p.pos]))
		case '\n':
			p.line++
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
		p.pos++
	}
	return "", errors.NewInvalidDocumentError(start, "unterminated literal")
}

// skipLiteralSuffix drops a language tag or datatype following a literal.
func (p *tupleParser) skipLiteralSuffix() {
	if p.pos >= len(p.src) {
		return
	}
	switch {
	case p.src[p.pos] == '@':
		for p.pos < len(p.src) && !unicode.IsSpace(p.src[p.pos]) && p.src[p.pos] != '.' {
			p.pos++
		}
	case p.pos+1 < len(p.src) && p.src[p.pos] == '^' && p.src[p.pos+1] == '^':
		p.pos += 2
		if p.pos < len(p.src) && p.src[p.pos] == '<' {
			_, _ = p.uri()
		}
	}
}

func (p *tupleParser) uri() (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '>':
			p.pos++
			return string(p.src[start:p.pos]), nil
		case '\n':
			return "", errors.NewInvalidDocumentError(p.line, "unterminated URI")
		}
		p.pos++
	}
	return "", errors.NewInvalidDocumentError(p.line, "unterminated URI")
}

func (p *tupleParser) bare() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		if unicode.IsSpace(r) || r == '"' || r == '<' {
			break
		}
		// A '.' ends the tuple unless it sits inside the token (e.g. "_:b0.x").
		if r == '.' && (p.pos+1 >= len(p.src) || unicode.IsSpace(p.src[p.pos+1])) {
			break
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}
