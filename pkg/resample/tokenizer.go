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

package resample

import (
	"strconv"
)

// tokenKind classifies one content-stream token.
type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokString
	tokArrayOpen
	tokArrayClose
	tokOperator
	tokOther // opaque atom: "<<", ">>", hex string, BI/ID/EI inline-image markers
)

// token is one lexical unit of a content stream.
type token struct {
	kind tokenKind
	text string  // raw text, name without leading '/', string without parens
	num  float64 // valid when kind == tokNumber
}

// tokenize converts a decompressed content stream into an ordered token
// sequence. It is deliberately forgiving: an unterminated
// string at end-of-input becomes one token, comments are discarded, and
// malformed UTF-8 in names is preserved byte-for-byte since text is kept
// as raw Go strings over the input bytes.
func tokenize(data []byte) []token {
	var toks []token
	i, n := 0, len(data)

	isWS := func(c byte) bool {
		switch c {
		case ' ', '\t', '\r', '\n':
			return true
		}
		return false
	}
	isDelim := func(c byte) bool {
		switch c {
		case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
			return true
		}
		return false
	}

	for i < n {
		c := data[i]

		switch {
		case isWS(c):
			i++

		case c == '%':
			for i < n && data[i] != '\n' && data[i] != '\r' {
				i++
			}

		case c == '/':
			start := i
			i++
			for i < n && !isWS(data[i]) && !isDelim(data[i]) {
				i++
			}
			toks = append(toks, token{kind: tokName, text: string(data[start+1 : i])})

		case c == '(':
			start := i
			i++
			depth := 1
			for i < n && depth > 0 {
				switch data[i] {
				case '\\':
					i++ // escaped byte is not semantically significant here; skip it too
				case '(':
					depth++
				case ')':
					depth--
				}
				i++
			}
			// On truncated input depth never reaches 0; accept whatever we have.
			end := min(i, n)
			if depth == 0 {
				end = i - 1 // drop the closing ')'
			}
			toks = append(toks, token{kind: tokString, text: string(data[start+1 : end])})

		case c == '[':
			toks = append(toks, token{kind: tokArrayOpen, text: "["})
			i++

		case c == ']':
			toks = append(toks, token{kind: tokArrayClose, text: "]"})
			i++

		case i+1 < n && c == '<' && data[i+1] == '<':
			depth := 1
			i += 2
			for i < n && depth > 0 {
				if i+1 < n && data[i] == '<' && data[i+1] == '<' {
					depth++
					i += 2
					continue
				}
				if i+1 < n && data[i] == '>' && data[i+1] == '>' {
					depth--
					i += 2
					continue
				}
				i++
			}
			toks = append(toks, token{kind: tokOther, text: "<<dict>>"})

		case c == '<':
			start := i
			i++
			for i < n && data[i] != '>' {
				i++
			}
			if i < n {
				i++
			}
			toks = append(toks, token{kind: tokOther, text: string(data[start:min(i, n)])})

		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			start := i
			i++
			for i < n {
				ch := data[i]
				if (ch >= '0' && ch <= '9') || ch == '.' || ch == '+' || ch == '-' || ch == 'e' || ch == 'E' {
					i++
					continue
				}
				break
			}
			s := string(data[start:i])
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				// Unparseable operand: keep as an opaque atom so it never gets
				// mistaken for an operator position during operand lookback.
				toks = append(toks, token{kind: tokOther, text: s})
				continue
			}
			toks = append(toks, token{kind: tokNumber, text: s, num: f})

		case c == 'B' && i+1 < n && data[i+1] == 'I' && (i+2 >= n || isWS(data[i+2]) || isDelim(data[i+2])):
			// Inline image: "BI ... ID <raw data> EI". The analyzer must not
			// misparse the raw payload as operators; skip straight
			// to the matching "EI" token boundary.
			end := findInlineImageEnd(data, i)
			toks = append(toks, token{kind: tokOther, text: "BI...EI"})
			i = end

		default:
			start := i
			for i < n && !isWS(data[i]) && !isDelim(data[i]) {
				i++
			}
			if i == start {
				i++ // lone delimiter byte we don't otherwise special-case (e.g. stray '{')
				continue
			}
			toks = append(toks, token{kind: tokOperator, text: string(data[start:i])})
		}
	}

	return toks
}

// findInlineImageEnd scans forward from a "BI" token to the position
// just past the matching "EI" operator, tolerating arbitrary binary
// payload between "ID" and "EI". Inline images are not analyzed for
// display size but must not corrupt the surrounding token stream.
func findInlineImageEnd(data []byte, start int) int {
	n := len(data)
	idIdx := -1
	for i := start; i+1 < n; i++ {
		if data[i] == 'I' && data[i+1] == 'D' {
			before := i == 0 || data[i-1] == ' ' || data[i-1] == '\n' || data[i-1] == '\r' || data[i-1] == '\t'
			after := i+2 >= n || data[i+2] == ' ' || data[i+2] == '\n' || data[i+2] == '\r' || data[i+2] == '\t'
			if before && after {
				idIdx = i + 2
				break
			}
		}
	}
	if idIdx < 0 {
		return n
	}
	for i := idIdx; i+1 < n; i++ {
		if data[i] == 'E' && data[i+1] == 'I' {
			before := data[i-1] == ' ' || data[i-1] == '\n' || data[i-1] == '\r' || data[i-1] == '\t' || data[i-1] == 0
			after := i+2 >= n || isWSorDelimByte(data[i+2])
			if before && after {
				return i + 2
			}
		}
	}
	return n
}

func isWSorDelimByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
