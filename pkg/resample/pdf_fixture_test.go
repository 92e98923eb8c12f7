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
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

// buildPDF assembles a minimal PDF byte stream from a set of "N G obj
// ... endobj" bodies plus a trailer, for use as a model.Parse fixture.
// The loader's stream reader falls back to scanning for "endstream"
// when /Length is absent or wrong, so fixtures never need to compute
// exact byte counts.
func buildPDF(objs []string, rootID int) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")
	for _, o := range objs {
		b.WriteString(o)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "trailer\n<< /Root %d 0 R >>\n", rootID)
	return b.Bytes()
}

func obj(num int, dict string, stream []byte) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d 0 obj\n%s\n", num, dict)
	if stream != nil {
		b.WriteString("stream\n")
		b.Write(stream)
		b.WriteString("\nendstream\n")
	}
	b.WriteString("endobj")
	return b.String()
}

// flateRaw zlib-compresses raw for use as a FlateDecode stream payload.
func flateRaw(raw []byte) []byte {
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	_, _ = w.Write(raw)
	_ = w.Close()
	return b.Bytes()
}

// rgbPixels returns n*n*3 raw DeviceRGB bytes of a flat mid-gray image,
// deliberately content-agnostic since these tests exercise the
// dimension/DPI pipeline, not colour fidelity.
func rgbPixels(n int) []byte {
	out := make([]byte, n*n*3)
	for i := range out {
		out[i] = 128
	}
	return out
}
