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
	"regexp"
	"strconv"

	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pdfresample/pdfresample/pkg/types"
	"github.com/pkg/errors"
)

// objHeaderRE finds "N G obj" headers directly in the file bytes. Parsing
// is driven by these headers rather than by the cross-reference table:
// classic xref tables and xref streams are two different on-disk
// encodings of the same "where is object N" question, and a PDF with a
// damaged or absent xref section is still readable by this scan.
// Objects stored inside compressed object streams (/Type /ObjStm) carry
// no header of their own and are not found by it. Tolerating a damaged or absent xref section
// at the loader is the one layer where it matters most: a scan
// failure here would make every downstream guarantee moot.
var objHeaderRE = regexp.MustCompile(`(?m)(?:^|[^0-9])(\d+)[ \t]+(\d+)[ \t]+obj\b`)

var trailerRE = regexp.MustCompile(`(?s)trailer\s*(<<.*?>>)`)

// Parse reads a complete PDF byte stream into a Context. It tolerates
// the absence or corruption of the cross-reference table by locating
// every indirect object directly, and tolerates a missing/malformed
// trailer by falling back to scanning every object dict for /Type
// /Catalog and synthesizing a trailer from it.
func Parse(data []byte) (*Context, error) {
	ctx := NewContext()

	headers := objHeaderRE.FindAllSubmatchIndex(data, -1)
	if len(headers) == 0 {
		return nil, errors.New("model: no indirect objects found in input")
	}

	for i, h := range headers {
		numStart, numEnd := h[2], h[3]
		genStart, genEnd := h[4], h[5]
		num, err := strconv.Atoi(string(data[numStart:numEnd]))
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(string(data[genStart:genEnd]))
		if err != nil {
			continue
		}

		bodyStart := h[1]
		bodyEnd := len(data)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		body := data[bodyStart:bodyEnd]
		if end := bytes.Index(body, []byte("endobj")); end >= 0 {
			body = body[:end]
		}

		obj, err := parseIndirectBody(body)
		if err != nil {
			log.Debug.Printf("model: skipping object %d %d: %v", num, gen, err)
			continue
		}

		id := types.ObjectID{Number: types.ObjectNumber(num), Generation: types.GenerationNumber(gen)}
		ctx.Objects[id] = obj
		ctx.setMaxObjectNumber(num)
	}

	if err := populateTrailer(ctx, data); err != nil {
		return nil, err
	}

	return ctx, nil
}

// parseIndirectBody parses the object value following an "N G obj"
// header, including an optional "stream ... endstream" payload.
func parseIndirectBody(body []byte) (types.Object, error) {
	p := newParser(body)
	obj, err := p.parseObject()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()
	if p.hasPrefix("stream") {
		dict, ok := obj.(types.Dict)
		if !ok {
			return nil, errors.New("stream keyword without a preceding dict")
		}
		raw, err := p.readStreamPayload(dict)
		if err != nil {
			return nil, err
		}
		return types.NewStreamDict(dict, raw), nil
	}

	return obj, nil
}

// populateTrailer locates the document trailer. Classic PDFs carry a
// literal "trailer <<...>>"; failing that, the catalog is found by
// scanning the parsed objects for /Type /Catalog, which covers the
// common xref-stream case without needing to decode the xref stream
// itself (a deliberate narrowing of loader scope: this module resamples
// images, it does not re-implement PDF's several cross-reference
// encodings).
func populateTrailer(ctx *Context, data []byte) error {
	if m := trailerRE.FindSubmatch(data); m != nil {
		p := newParser(m[1])
		obj, err := p.parseObject()
		if err == nil {
			if d, ok := obj.(types.Dict); ok {
				ctx.Trailer = d
				if _, found := d.Find("Root"); found {
					return nil
				}
			}
		}
	}

	for id, obj := range ctx.Objects {
		d, ok := obj.(types.Dict)
		if !ok {
			if sd, ok := obj.(types.StreamDict); ok {
				d = sd.Dict
			} else {
				continue
			}
		}
		if t := d.Type(); t != nil && *t == "Catalog" {
			ctx.Trailer = types.NewDict()
			ctx.Trailer.Insert("Root", types.IndirectRef{
				ObjectNumber:     types.Integer(id.Number),
				GenerationNumber: types.Integer(id.Generation),
			})
			return nil
		}
	}

	return errors.New("model: could not locate document catalog")
}
