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

package types

// Filter names recognized by the filter layer and the image transformer.
const (
	FilterFlate = "FlateDecode"
	FilterLZW   = "LZWDecode"
	FilterDCT   = "DCTDecode"
	FilterJPX   = "JPXDecode"
)

// Filter represents one entry of a stream's filter pipeline, with its
// optional DecodeParms.
type Filter struct {
	Name        string
	DecodeParms *Dict
}

// StreamDict represents a PDF stream object: a Dict plus its raw and
// (optionally) decoded payload.
type StreamDict struct {
	Dict
	FilterPipeline []Filter
	Raw            []byte // as stored in the source PDF, still filtered
	Content        []byte // slot for a decoded payload; neither the loader nor NewStreamDict fills it
}

// NewStreamDict wraps a Dict and raw payload bytes into a StreamDict,
// parsing its Filter/DecodeParms entries into a pipeline.
func NewStreamDict(dict Dict, raw []byte) StreamDict {
	return StreamDict{Dict: dict, FilterPipeline: filterPipelineOf(dict), Raw: raw}
}

func filterPipelineOf(d Dict) []Filter {
	v, found := d.Find("Filter")
	if !found {
		return nil
	}

	parmsFor := func(i int) *Dict {
		pv, ok := d.Find("DecodeParms")
		if !ok {
			return nil
		}
		switch p := pv.(type) {
		case Dict:
			if i == 0 {
				return &p
			}
		case Array:
			if i < len(p) {
				if sub, ok := p[i].(Dict); ok {
					return &sub
				}
			}
		}
		return nil
	}

	switch f := v.(type) {
	case Name:
		return []Filter{{Name: string(f), DecodeParms: parmsFor(0)}}
	case Array:
		pipeline := make([]Filter, 0, len(f))
		for i, fo := range f {
			if n, ok := fo.(Name); ok {
				pipeline = append(pipeline, Filter{Name: string(n), DecodeParms: parmsFor(i)})
			}
		}
		return pipeline
	}
	return nil
}

// HasSoleFilterNamed returns true if this stream's pipeline consists of
// exactly one filter with the given name.
func (sd StreamDict) HasSoleFilterNamed(name string) bool {
	return len(sd.FilterPipeline) == 1 && sd.FilterPipeline[0].Name == name
}

// ImageDims returns the Width/Height of an image stream dict, or ok=false
// if either is missing or non-positive (per the image index contract).
func (sd StreamDict) ImageDims() (width, height int, ok bool) {
	w := sd.IntEntry("Width")
	h := sd.IntEntry("Height")
	if w == nil || h == nil || *w <= 0 || *h <= 0 {
		return 0, 0, false
	}
	return *w, *h, true
}
