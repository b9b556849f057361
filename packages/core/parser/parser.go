package parser

import (
	"bytes"
	"os"
	"strings"
)

// Per-block states. stateNone holds between a ### separator and the
// block's request line; the blank line after the headers moves the
// block into stateBody.
type state int

const (
	stateNone state = iota
	stateHeaders
	stateBody
)

func ParseFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path)
}

func Parse(input, filename string) (*File, error) {
	p := &parser{file: filename}
	return p.parse(input)
}

type parser struct {
	file string

	state state
	cur   *Request
	body  bytes.Buffer
	// nextName is the text after the most recent ### separator; it
	// names the block that separator opens, never the one it closes.
	nextName string

	out []*Request
}

func (p *parser) parse(input string) (*File, error) {
	for i, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		lineNo := i + 1

		switch {
		case line == "":
			if p.state == stateHeaders {
				p.state = stateBody
			}

		case strings.HasPrefix(line, "###"):
			p.closeBlock()
			p.nextName = strings.TrimSpace(line[3:])

		case strings.HasPrefix(line, "//#"):
			if err := p.parseAssertion(line, lineNo); err != nil {
				return nil, err
			}

		case strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//"):
			// comment

		case p.state == stateNone:
			if err := p.parseRequestLine(line, lineNo); err != nil {
				return nil, err
			}

		case p.state == stateHeaders:
			if err := p.parseHeader(line, lineNo); err != nil {
				return nil, err
			}

		default: // stateBody
			p.body.WriteString(line)
			p.body.WriteByte('\n')
		}
	}

	p.closeBlock()

	return &File{Path: p.file, Requests: p.out}, nil
}

// closeBlock flushes the accumulated body onto the current request and
// appends it. Blocks that never saw a request line are dropped.
func (p *parser) closeBlock() {
	if p.cur != nil {
		if p.body.Len() > 0 {
			p.cur.Body = append([]byte(nil), p.body.Bytes()...)
		}
		p.out = append(p.out, p.cur)
	}
	p.cur = nil
	p.body.Reset()
	p.state = stateNone
	p.nextName = ""
}

func (p *parser) parseRequestLine(line string, lineNo int) error {
	tokens := strings.Fields(line)

	if len(tokens) < 2 {
		return &ParseError{
			File:    p.file,
			Line:    lineNo,
			Kind:    ErrMissingURL,
			Message: "request line needs a method and a URL",
		}
	}

	version := DefaultVersion
	if len(tokens) >= 3 {
		if !knownVersions[tokens[2]] {
			return &ParseError{
				File:    p.file,
				Line:    lineNo,
				Kind:    ErrBadVersion,
				Message: "unrecognized protocol version " + tokens[2],
			}
		}
		version = tokens[2]
	}

	p.cur = &Request{
		Name:    p.nextName,
		Method:  LookupMethod(tokens[0]),
		URL:     tokens[1],
		Version: version,
		Line:    lineNo,
	}
	p.nextName = ""
	p.state = stateHeaders
	return nil
}

func (p *parser) parseHeader(line string, lineNo int) error {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return &ParseError{
			File:    p.file,
			Line:    lineNo,
			Kind:    ErrBadHeader,
			Message: "header line has no colon: " + line,
		}
	}

	p.cur.Headers = append(p.cur.Headers, &Header{
		Key:   strings.TrimSpace(line[:idx]),
		Value: strings.TrimSpace(line[idx+1:]),
		Line:  lineNo,
	})
	return nil
}

func (p *parser) parseAssertion(line string, lineNo int) error {
	if p.cur == nil {
		return &ParseError{
			File:    p.file,
			Line:    lineNo,
			Kind:    ErrBadAssertion,
			Message: "assertion before any request",
		}
	}

	key, opToken, value, ok := splitAssertion(strings.TrimSpace(line[3:]))
	if !ok {
		return &ParseError{
			File:    p.file,
			Line:    lineNo,
			Kind:    ErrBadAssertion,
			Message: "assertion needs a key, an operator and a value",
		}
	}

	op, ok := LookupOperator(opToken)
	if !ok {
		return &ParseError{
			File:    p.file,
			Line:    lineNo,
			Kind:    ErrBadAssertion,
			Message: "unknown operator " + opToken,
		}
	}

	p.cur.Assertions = append(p.cur.Assertions, &Assertion{
		Key:      key,
		Operator: op,
		Value:    value,
		Line:     lineNo,
	})
	return nil
}

// splitAssertion splits an already-trimmed assertion payload into at
// most three whitespace-separated tokens; the value keeps any interior
// whitespace.
func splitAssertion(s string) (key, op, value string, ok bool) {
	key, rest := nextToken(s)
	op, value = nextToken(rest)
	if key == "" || op == "" || value == "" {
		return "", "", "", false
	}
	return key, op, value, true
}

func nextToken(s string) (token, rest string) {
	s = strings.TrimLeft(s, " \t")
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimLeft(s[idx:], " \t")
}
