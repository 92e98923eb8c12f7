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
	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/types"
)

// BuildImageIndex enumerates every stream object whose dictionary has
// Subtype = Image. A stream is skipped if Width or Height
// is missing or non-positive. Idempotent and read-only: the returned
// map is consulted, never mutated, by both the analyzer and the
// transformer.
func BuildImageIndex(ctx *model.Context) map[types.ObjectID]ImageRecord {
	index := map[types.ObjectID]ImageRecord{}

	for id, obj := range ctx.Objects {
		sd, ok := obj.(types.StreamDict)
		if !ok || !sd.IsImageDict() {
			continue
		}

		w, h, ok := sd.ImageDims()
		if !ok {
			continue
		}

		rec := ImageRecord{
			ObjectID:    id,
			PixelWidth:  w,
			PixelHeight: h,
			PayloadSize: len(sd.Raw),
		}

		if cs := sd.NameEntry("ColorSpace"); cs != nil {
			rec.ColorSpace = *cs
		}
		if bpc := sd.IntEntry("BitsPerComponent"); bpc != nil {
			rec.BitsPerComp = *bpc
		}
		for _, f := range sd.FilterPipeline {
			rec.FilterChain = append(rec.FilterChain, f.Name)
		}

		if smv, found := sd.Find("SMask"); found {
			if ir, ok := smv.(types.IndirectRef); ok {
				smID := ir.ID()
				rec.SMaskID = &smID
			}
		}

		index[id] = rec
	}

	return index
}
