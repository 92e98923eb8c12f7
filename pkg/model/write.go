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
	"compress/zlib"
	"fmt"
	"sort"

	"github.com/pdfresample/pdfresample/pkg/types"
)

// Serialize writes ctx back out as a complete PDF byte stream with a
// freshly computed cross-reference table, renumbering nothing (object
// numbers are preserved so that indirect references already embedded in
// dicts remain valid). When compressStreams is true, any stream that
// carries no Filter at all is FlateDecode-compressed before being
// written (streams that already have a filter are written as they are),
// shrinking the unfiltered
// content pdfcpu's optimize pass would otherwise leave untouched.
func Serialize(ctx *Context, compressStreams bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")

	ids := make([]types.ObjectID, 0, len(ctx.Objects))
	for id := range ctx.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Number < ids[j].Number })

	offsets := make(map[types.ObjectID]int, len(ids))

	for _, id := range ids {
		offsets[id] = buf.Len()
		obj := ctx.Objects[id]
		fmt.Fprintf(&buf, "%d %d obj\n", id.Number, id.Generation)

		switch o := obj.(type) {
		case types.StreamDict:
			sd := o
			if compressStreams {
				sd = maybeCompress(sd)
			}
			sd.Update("Length", types.Integer(len(sd.Raw)))
			buf.WriteString(sd.Dict.PDFString())
			buf.WriteString("\nstream\n")
			buf.Write(sd.Raw)
			buf.WriteString("\nendstream\n")
		default:
			if obj == nil {
				buf.WriteString("null")
			} else {
				buf.WriteString(obj.PDFString())
			}
			buf.WriteString("\n")
		}
		buf.WriteString("endobj\n")
	}

	xrefStart := buf.Len()
	maxNum := 0
	for _, id := range ids {
		if int(id.Number) > maxNum {
			maxNum = int(id.Number)
		}
	}

	fmt.Fprintf(&buf, "xref\n0 %d\n", maxNum+1)
	buf.WriteString("0000000000 65535 f \n")
	byNumber := make(map[int]types.ObjectID, len(ids))
	for _, id := range ids {
		byNumber[int(id.Number)] = id
	}
	for n := 1; n <= maxNum; n++ {
		id, ok := byNumber[n]
		if !ok {
			buf.WriteString("0000000000 00000 f \n")
			continue
		}
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[id], id.Generation)
	}

	buf.WriteString("trailer\n")
	trailer := ctx.Trailer
	trailer.Update("Size", types.Integer(maxNum+1))
	buf.WriteString(trailer.PDFString())
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefStart)

	return buf.Bytes(), nil
}

func maybeCompress(sd types.StreamDict) types.StreamDict {
	if len(sd.FilterPipeline) > 0 {
		// Already filtered (e.g. DCTDecode/FlateDecode/JPXDecode); re-compressing
		// an already-compressed or already-lossily-encoded payload wastes CPU
		// for no size benefit, and double-flating is actively counterproductive.
		return sd
	}

	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write(sd.Raw); err != nil {
		return sd
	}
	if err := w.Close(); err != nil {
		return sd
	}

	sd.Raw = b.Bytes()
	sd.FilterPipeline = []types.Filter{{Name: types.FilterFlate}}
	sd.Dict.Update("Filter", types.Name(types.FilterFlate))
	return sd
}
