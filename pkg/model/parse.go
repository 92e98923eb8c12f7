/*
Copyright 2020 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pdfresample/pdfresample/pkg/types"
	"github.com/pkg/errors"
)

// parser is a small recursive-descent reader for PDF object syntax
// (dicts, arrays, names, numbers, strings, references, streams). It is
// distinct from the content-stream tokenizer in pkg/resample, which
// reads operator/operand sequences rather than object syntax.
type parser struct {
	buf []byte
	pos int
}

func newParser(b []byte) *parser {
	return &parser{buf: b}
}

func isWhitespace(c byte) bool {
	switch c {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func (p *parser) eof() bool { return p.pos >= len(p.buf) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.buf[p.pos]
}

func (p *parser) skipWhitespace() {
	for !p.eof() {
		c := p.buf[p.pos]
		if c == '%' {
			for !p.eof() && p.buf[p.pos] != '\n' && p.buf[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		if !isWhitespace(c) {
			return
		}
		p.pos++
	}
}

func (p *parser) hasPrefix(s string) bool {
	return bytes.HasPrefix(p.buf[p.pos:], []byte(s))
}

// parseObject parses one PDF object value (not including a trailing
// "stream" payload, which is handled by the caller once it knows the
// parsed value was a dict).
func (p *parser) parseObject() (types.Object, error) {
	p.skipWhitespace()
	if p.eof() {
		return nil, errors.New("unexpected end of input")
	}

	switch c := p.peek(); {
	case c == '/':
		return p.parseName(), nil
	case c == '(':
		return p.parseStringLiteral()
	case p.hasPrefix("<<"):
		return p.parseDict()
	case c == '<':
		return p.parseHexString()
	case c == '[':
		return p.parseArray()
	case p.hasPrefix("true"):
		p.pos += 4
		return types.Boolean(true), nil
	case p.hasPrefix("false"):
		p.pos += 5
		return types.Boolean(false), nil
	case p.hasPrefix("null"):
		p.pos += 4
		return nil, nil
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumberOrRef()
	default:
		// Unrecognised token (e.g. a bare keyword). Skip it as an atom so
		// a surrounding array/dict parse can continue past it.
		start := p.pos
		for !p.eof() && !isWhitespace(p.peek()) && !isDelim(p.peek()) {
			p.pos++
		}
		if p.pos == start {
			p.pos++
		}
		return types.Name(string(p.buf[start:p.pos])), nil
	}
}

func (p *parser) parseName() types.Object {
	p.pos++ // consume '/'
	start := p.pos
	for !p.eof() && !isWhitespace(p.peek()) && !isDelim(p.peek()) {
		p.pos++
	}
	return types.Name(string(p.buf[start:p.pos]))
}

func (p *parser) parseStringLiteral() (types.Object, error) {
	p.pos++ // consume '('
	start := p.pos
	depth := 1
	for !p.eof() {
		switch p.buf[p.pos] {
		case '\\':
			p.pos++ // skip escaped byte too
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				s := string(p.buf[start:p.pos])
				p.pos++
				return types.StringLiteral(s), nil
			}
		}
		p.pos++
	}
	return nil, errors.New("unterminated string literal")
}

func (p *parser) parseHexString() (types.Object, error) {
	p.pos++ // consume '<'
	start := p.pos
	end := bytes.IndexByte(p.buf[p.pos:], '>')
	if end < 0 {
		return nil, errors.New("unterminated hex string")
	}
	p.pos += end + 1
	return types.StringLiteral(string(p.buf[start : start+end])), nil
}

func (p *parser) parseArray() (types.Object, error) {
	p.pos++ // consume '['
	arr := types.Array{}
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, errors.New("unterminated array")
		}
		if p.peek() == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *parser) parseDict() (types.Object, error) {
	p.pos += 2 // consume '<<'
	d := types.NewDict()
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, errors.New("unterminated dict")
		}
		if p.hasPrefix(">>") {
			p.pos += 2
			return d, nil
		}
		if p.peek() != '/' {
			return nil, errors.Errorf("expected name key in dict, got %q", p.peek())
		}
		key := p.parseName().(types.Name)
		val, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		d.Update(string(key), val)
	}
}

// parseNumberOrRef parses a number, or -- if it is followed by another
// number and the keyword "R" -- an indirect reference "N G R".
func (p *parser) parseNumberOrRef() (types.Object, error) {
	n1, isInt1, err := p.parseNumber()
	if err != nil {
		return nil, err
	}

	if isInt1 {
		save := p.pos
		p.skipWhitespace()
		if !p.eof() && (p.peek() >= '0' && p.peek() <= '9') {
			n2, isInt2, err := p.parseNumber()
			if err == nil && isInt2 {
				p.skipWhitespace()
				if !p.eof() && p.peek() == 'R' && (p.pos+1 >= len(p.buf) || isWhitespace(p.buf[p.pos+1]) || isDelim(p.buf[p.pos+1])) {
					p.pos++ // consume 'R'
					return types.IndirectRef{
						ObjectNumber:     types.Integer(int(n1)),
						GenerationNumber: types.Integer(int(n2)),
					}, nil
				}
			}
		}
		p.pos = save
		return types.Integer(int(n1)), nil
	}

	return types.Float(n1), nil
}

func (p *parser) parseNumber() (float64, bool, error) {
	start := p.pos
	if !p.eof() && (p.peek() == '+' || p.peek() == '-') {
		p.pos++
	}
	isInt := true
	for !p.eof() {
		c := p.peek()
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' {
			isInt = false
			p.pos++
			continue
		}
		break
	}
	s := string(p.buf[start:p.pos])
	if s == "" || s == "+" || s == "-" {
		return 0, false, errors.Errorf("malformed number at offset %d", start)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, errors.Wrapf(err, "malformed number %q", s)
	}
	return f, isInt, nil
}

// readStreamPayload reads the raw bytes between "stream" and "endstream"
// following dict, using dict's /Length when it is a direct integer and
// falling back to scanning for "endstream" otherwise (an indirect
// /Length cannot be resolved without the full object graph, which the
// loader does not yet have while still parsing it).
func (p *parser) readStreamPayload(dict types.Dict) ([]byte, error) {
	p.pos += len("stream")
	// "stream" is followed by CRLF or LF, never a bare CR.
	if !p.eof() && p.buf[p.pos] == '\r' {
		p.pos++
	}
	if !p.eof() && p.buf[p.pos] == '\n' {
		p.pos++
	}
	start := p.pos

	if length := dict.IntEntry("Length"); length != nil && *length >= 0 && start+*length <= len(p.buf) {
		end := start + *length
		tail := strings.TrimLeft(string(p.buf[end:]), "\r\n \t")
		if strings.HasPrefix(tail, "endstream") {
			p.pos = end
			return p.buf[start:end], nil
		}
	}

	idx := bytes.Index(p.buf[p.pos:], []byte("endstream"))
	if idx < 0 {
		return nil, errors.New("unterminated stream")
	}
	end := p.pos + idx
	// Trailing EOL before "endstream" is not part of the payload.
	for end > start && (p.buf[end-1] == '\n' || p.buf[end-1] == '\r') {
		end--
	}
	p.pos = p.pos + idx + len("endstream")
	return p.buf[start:end], nil
}
