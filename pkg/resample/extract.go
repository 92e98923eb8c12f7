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
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/types"
)

// ImageInfo is one entry of the browser bridge's per-image JSON record:
// "{ objectId, type, width, height, colorSpace, bpc, filter, size,
// dpiX?, dpiY? }". This is the image-extraction/inspection surface
// modeled on extract_pdf_images_info, independent of the resample
// pipeline (it performs no CTM tracking).
type ImageInfo struct {
	ObjectID   string   `json:"objectId"`
	Type       string   `json:"type"` // "image" or "smask"
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	ColorSpace string   `json:"colorSpace"`
	BPC        int      `json:"bpc"`
	Filter     string   `json:"filter"`
	Size       int      `json:"size"`
	DPIX       *float64 `json:"dpiX,omitempty"`
	DPIY       *float64 `json:"dpiY,omitempty"`
}

// ExtractImageInfo enumerates every image XObject and its associated
// soft mask per page, without running the graphics-state interpreter.
// When displayInfo is non-nil (the caller already ran Analyze+Reduce),
// DPIX/DPIY are filled in for images with a recorded display size.
func ExtractImageInfo(ctx *model.Context, displayInfo map[types.ObjectID]ImageDisplayInfo) map[int][]ImageInfo {
	index := BuildImageIndex(ctx)
	smaskOf := map[types.ObjectID]bool{}
	for _, rec := range index {
		if rec.SMaskID != nil {
			smaskOf[*rec.SMaskID] = true
		}
	}

	result := map[int][]ImageInfo{}
	seen := map[types.ObjectID]bool{}

	for pageNum, page := range ctx.Pages() {
		chain := pageResourcesChain(ctx, page)
		var onPage []ImageInfo
		for _, r := range chain {
			xv, ok := r.Find("XObject")
			if !ok {
				continue
			}
			xd, ok := ctx.ResolveDict(xv)
			if !ok {
				continue
			}
			for _, v := range xd.Dict {
				ir, ok := v.(types.IndirectRef)
				if !ok {
					continue
				}
				id := ir.ID()
				rec, known := index[id]
				if !known || seen[id] {
					continue
				}
				seen[id] = true
				onPage = append(onPage, imageInfoOf(id, rec, smaskOf[id], displayInfo))
				if rec.SMaskID != nil {
					if smRec, ok := index[*rec.SMaskID]; ok && !seen[*rec.SMaskID] {
						seen[*rec.SMaskID] = true
						onPage = append(onPage, imageInfoOf(*rec.SMaskID, smRec, true, displayInfo))
					}
				}
			}
		}
		if len(onPage) > 0 {
			result[pageNum+1] = onPage
		}
	}

	return result
}

func imageInfoOf(id types.ObjectID, rec ImageRecord, isSMask bool, displayInfo map[types.ObjectID]ImageDisplayInfo) ImageInfo {
	info := ImageInfo{
		ObjectID:   id.String(),
		Type:       "image",
		Width:      rec.PixelWidth,
		Height:     rec.PixelHeight,
		ColorSpace: rec.ColorSpace,
		BPC:        rec.BitsPerComp,
		Size:       rec.PayloadSize,
	}
	if isSMask {
		info.Type = "smask"
	}
	if len(rec.FilterChain) > 0 {
		info.Filter = rec.FilterChain[len(rec.FilterChain)-1]
	}
	if di, ok := displayInfo[id]; ok {
		x, y := di.EffectiveDPIX(), di.EffectiveDPIY()
		info.DPIX, info.DPIY = &x, &y
	}
	return info
}

// ExtractImageNative returns one image's native representation by its
// "num gen" object-id key: JPEG passthrough when the stream is
// DCTDecode with no soft mask, otherwise decoded and re-encoded as PNG,
// following extract_image_native.
func ExtractImageNative(ctx *model.Context, key string) ([]byte, string, error) {
	id, err := parseObjectIDKey(key)
	if err != nil {
		return nil, "", err
	}

	obj, ok := ctx.Dereference(id)
	if !ok {
		return nil, "", fmt.Errorf("resample: no object %s", key)
	}
	sd, ok := obj.(types.StreamDict)
	if !ok || !sd.IsImageDict() {
		return nil, "", fmt.Errorf("resample: object %s is not an image", key)
	}

	_, hasSMask := sd.Find("SMask")
	if sd.HasSoleFilterNamed(types.FilterDCT) && !hasSMask {
		return sd.Raw, "image/jpeg", nil
	}

	w, h, ok := sd.ImageDims()
	if !ok {
		return nil, "", fmt.Errorf("resample: object %s has no usable dimensions", key)
	}
	rec := ImageRecord{
		ObjectID:    id,
		PixelWidth:  w,
		PixelHeight: h,
		BitsPerComp: derefInt(sd.IntEntry("BitsPerComponent")),
	}
	if cs := sd.NameEntry("ColorSpace"); cs != nil {
		rec.ColorSpace = *cs
	}
	for _, f := range sd.FilterPipeline {
		rec.FilterChain = append(rec.FilterChain, f.Name)
	}

	img, _, err := decodeImagePixels(sd, rec)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/png", nil
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// parseObjectIDKey parses a bridge-surface "num gen" key into an
// ObjectID.
func parseObjectIDKey(key string) (types.ObjectID, error) {
	fields := strings.Fields(key)
	if len(fields) != 2 {
		return types.ObjectID{}, fmt.Errorf("resample: malformed object id %q, want \"num gen\"", key)
	}
	num, err := strconv.Atoi(fields[0])
	if err != nil {
		return types.ObjectID{}, fmt.Errorf("resample: malformed object number in %q", key)
	}
	gen, err := strconv.Atoi(fields[1])
	if err != nil {
		return types.ObjectID{}, fmt.Errorf("resample: malformed generation number in %q", key)
	}
	return types.ObjectID{Number: types.ObjectNumber(num), Generation: types.GenerationNumber(gen)}, nil
}
