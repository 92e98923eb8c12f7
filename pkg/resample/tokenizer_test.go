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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicOperators(t *testing.T) {
	toks := tokenize([]byte("q 1 0 0 1 0 0 cm /Im1 Do Q"))
	require.Len(t, toks, 11)
	require.Equal(t, tokOperator, toks[0].kind)
	require.Equal(t, "q", toks[0].text)
	require.Equal(t, tokNumber, toks[1].kind)
	require.InDelta(t, 1.0, toks[1].num, 1e-9)
	require.Equal(t, tokOperator, toks[7].kind)
	require.Equal(t, "cm", toks[7].text)
	require.Equal(t, tokName, toks[8].kind)
	require.Equal(t, "Im1", toks[8].text)
	require.Equal(t, tokOperator, toks[9].kind)
	require.Equal(t, "Do", toks[9].text)
}

func TestTokenizeStringLiteralWithNestedParens(t *testing.T) {
	toks := tokenize([]byte(`(a (nested) string) Tj`))
	require.Len(t, toks, 2)
	require.Equal(t, tokString, toks[0].kind)
	require.Equal(t, "a (nested) string", toks[0].text)
	require.Equal(t, "Tj", toks[1].text)
}

func TestTokenizeUnterminatedStringAtEOF(t *testing.T) {
	toks := tokenize([]byte(`(truncated`))
	require.Len(t, toks, 1)
	require.Equal(t, tokString, toks[0].kind)
}

func TestTokenizeCommentsDiscarded(t *testing.T) {
	toks := tokenize([]byte("q % a comment\nQ"))
	require.Len(t, toks, 2)
	require.Equal(t, "q", toks[0].text)
	require.Equal(t, "Q", toks[1].text)
}

func TestTokenizeInlineImageSkippedAsOneAtom(t *testing.T) {
	// Binary payload between ID and EI must not be misparsed as
	// operators: "q" "Do" style bytes inside the payload must not
	// surface as tokens.
	data := []byte("BI /W 2 /H 2 ID \x00q Do\x00\x00\x00 EI Q")
	toks := tokenize(data)
	require.Len(t, toks, 2)
	require.Equal(t, tokOther, toks[0].kind)
	require.Equal(t, "Q", toks[1].text)
}

func TestTokenizeArrayDelimiters(t *testing.T) {
	toks := tokenize([]byte(`[1 2 3] TJ`))
	require.Equal(t, tokArrayOpen, toks[0].kind)
	require.Equal(t, tokArrayClose, toks[4].kind)
	require.Equal(t, "TJ", toks[5].text)
}
