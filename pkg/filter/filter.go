/*
Copyright 2018 The pdfcpu Authors.

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

// Package filter decompresses PDF stream payloads. Content streams and
// image metadata streams in the wild practically only ever carry
// FlateDecode, with LZWDecode as the one holdover from older writers;
// image codecs (DCTDecode, JPXDecode) are deliberately left raw here —
// the image transformer owns those decoders directly.
package filter

import (
	"bytes"
	"io"

	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pkg/errors"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF filter names this layer knows how to decompress directly.
const (
	LZW   = "LZWDecode"
	Flate = "FlateDecode"
)

var (

	// ErrUnsupportedFilter signals an unsupported filter type.
	ErrUnsupportedFilter = errors.New("Filter not supported")
)

// Filter decompresses a buffer. This layer is decode-only: the
// resampler never writes a fresh Flate/LZW-encoded raster stream (new
// image streams are either JPEG via image/jpeg or hand-built
// zlib-compressed RGB, see pkg/resample/transform.go), so there is no
// encode side to the interface.
type Filter interface {
	Decode(r io.Reader) (io.Reader, error)
}

// NewFilter returns a filter for given filterName and an optional parameter dictionary.
func NewFilter(filterName string, parms map[string]int) (filter Filter, err error) {

	switch filterName {

	case LZW:
		filter = lzwDecode{baseFilter{parms}}

	case Flate:
		filter = flate{baseFilter{parms}}

	default:
		log.Info.Printf("Filter not supported: <%s>", filterName)
		err = ErrUnsupportedFilter
	}

	return filter, err
}

// List return the list of all filters this layer decompresses directly.
func List() []string {
	return []string{LZW, Flate}
}

type baseFilter struct {
	parms map[string]int
}

// DecodePipeline decompresses raw through a sequence of filter names,
// stopping at (and returning the bytes accumulated up to) the first name
// this layer does not decompress directly — content streams practically
// never carry anything past Flate/LZW, and image codecs are handled by
// the image transformer, not here. A decode error on the very first
// filter returns raw unchanged, tolerating PDFs with a stale Filter
// entry over already-inflated content.
func DecodePipeline(names []string, parmsOf func(i int) map[string]int, raw []byte) ([]byte, error) {
	buf := raw
	for i, name := range names {
		var parms map[string]int
		if parmsOf != nil {
			parms = parmsOf(i)
		}
		f, err := NewFilter(name, parms)
		if err != nil {
			return buf, nil
		}
		r, err := f.Decode(bytesReader(buf))
		if err != nil {
			if i == 0 {
				return raw, nil
			}
			return buf, nil
		}
		out, err := readAll(r)
		if err != nil {
			if i == 0 {
				return raw, nil
			}
			return buf, nil
		}
		buf = out
	}
	return buf, nil
}
