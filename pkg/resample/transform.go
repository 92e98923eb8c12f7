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
	"image"
	"image/color"
	"image/jpeg"
	"sort"

	"github.com/mrjoshuak/go-jpeg2000"
	"github.com/pdfresample/pdfresample/pkg/filter"
	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/types"
	"golang.org/x/image/draw"
)

// Transform runs the image transformer over every image in index,
// consulting displayInfo for the chosen display size, mutating ctx in
// place. It is the only phase permitted to mutate the object graph.
func Transform(ctx *model.Context, index map[types.ObjectID]ImageRecord, displayInfo map[types.ObjectID]ImageDisplayInfo, opts Options) ([]ImageOutcome, error) {
	ids := make([]types.ObjectID, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Number < ids[j].Number })

	outcomes := make([]ImageOutcome, 0, len(ids))

	for _, id := range ids {
		rec := index[id]
		outcome := ImageOutcome{
			ObjectID:    id.String(),
			PixelWidth:  rec.PixelWidth,
			PixelHeight: rec.PixelHeight,
		}

		info, known := displayInfo[id]
		currentDPI := 72.0
		if known {
			currentDPI = info.MaxEffectiveDPI()
		} else {
			// Never painted: 1 pixel = 1 point, so the display size in
			// points equals the pixel size.
			info = ImageDisplayInfo{ObjectID: id, PixelWidth: rec.PixelWidth, PixelHeight: rec.PixelHeight,
				DisplayWidth: float64(rec.PixelWidth), DisplayHeight: float64(rec.PixelHeight)}
		}
		outcome.EffectiveDPI = currentDPI

		needsResample := currentDPI > opts.TargetDPI+1.0 && currentDPI > opts.MinDPI

		if !needsResample {
			if rec.hasSoleFilter(types.FilterDCT) {
				outcome.Reason = "already JPEG-encoded at an appropriate density"
			} else {
				outcome.Reason = "effective DPI already at or below target"
			}
			outcomes = append(outcomes, outcome)
			if log.AnalyzeEnabled() {
				log.Analyze.Printf("skip %s: %s (dpi=%.1f)", id, outcome.Reason, currentDPI)
			}
			continue
		}

		targetW, targetH := info.TargetPixels(opts.TargetDPI)
		if targetW >= rec.PixelWidth && targetH >= rec.PixelHeight {
			outcome.Reason = "resampled size would not be smaller"
			outcomes = append(outcomes, outcome)
			continue
		}

		if err := transformOne(ctx, index, id, rec, targetW, targetH, opts, &outcome); err != nil {
			// Per-image failures are never surfaced as call errors; they
			// degrade to a skip outcome.
			if outcome.Reason == "" {
				outcome.Reason = err.Error()
			}
			log.Debug.Printf("resample %s: %v", id, err)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (rec ImageRecord) hasSoleFilter(name string) bool {
	return len(rec.FilterChain) == 1 && rec.FilterChain[0] == name
}

// transformOne decodes, resizes, re-encodes, and swaps in place the
// image stream at id. outcome.Resampled is set on success; outcome.Reason
// is set (and the error returned) on any per-image recoverable failure.
func transformOne(ctx *model.Context, index map[types.ObjectID]ImageRecord, id types.ObjectID, rec ImageRecord, targetW, targetH int, opts Options, outcome *ImageOutcome) error {
	obj, ok := ctx.Dereference(id)
	if !ok {
		return fmt.Errorf("object not found")
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		return fmt.Errorf("not a stream")
	}

	rgb, reason, err := decodeImagePixels(sd, rec)
	if err != nil {
		outcome.Reason = reason
		return err
	}

	var alpha *image.Gray
	if rec.SMaskID != nil {
		if smRec, ok := index[*rec.SMaskID]; ok {
			if smObj, ok := ctx.Dereference(*rec.SMaskID); ok {
				if smSD, ok := smObj.(types.StreamDict); ok {
					if g, _, err := decodeImagePixels(smSD, smRec); err == nil {
						if gray, ok := toGray(g, smRec.PixelWidth, smRec.PixelHeight); ok {
							alpha = gray
						}
					}
				}
			}
		}
	}

	resizedRGB := resizeRGBA(rgb, targetW, targetH)
	var resizedAlpha *image.Gray
	if alpha != nil {
		resizedAlpha = resizeGray(alpha, targetW, targetH)
	}

	hasAlpha := false
	if resizedAlpha != nil {
		hasAlpha = sampleHasAlpha(resizedAlpha)
	}

	var newStream types.StreamDict
	if hasAlpha {
		newStream, err = encodeWithAlpha(ctx, resizedRGB, resizedAlpha, targetW, targetH)
	} else {
		newStream, err = encodeOpaque(resizedRGB, targetW, targetH, opts.Quality)
	}
	if err != nil {
		outcome.Reason = "encode failed"
		return err
	}

	ctx.Replace(id, newStream)

	outcome.Resampled = true
	outcome.NewWidth = targetW
	outcome.NewHeight = targetH
	outcome.HasAlpha = hasAlpha
	return nil
}

// decodeImagePixels decodes one image XObject's payload to an
// *image.NRGBA. Any depth/colour-space/filter combination outside the
// supported set returns a non-nil error and a human-readable skip
// reason; the caller never treats this as a fatal error.
func decodeImagePixels(sd types.StreamDict, rec ImageRecord) (*image.NRGBA, string, error) {
	switch {
	case rec.hasSoleFilter(types.FilterDCT):
		img, err := jpeg.Decode(bytes.NewReader(sd.Raw))
		if err != nil {
			return nil, "JPEG decode failed", err
		}
		return toNRGBA(img), "", nil

	case rec.hasSoleFilter(types.FilterJPX):
		img, err := jpeg2000.Decode(bytes.NewReader(sd.Raw))
		if err != nil {
			return nil, "JPEG2000 decode failed", err
		}
		return toNRGBA(img), "", nil

	case len(rec.FilterChain) == 0 || rec.hasSoleFilter(types.FilterFlate) || rec.hasSoleFilter(types.FilterLZW):
		if rec.BitsPerComp != 0 && rec.BitsPerComp != 8 {
			return nil, fmt.Sprintf("unsupported bit depth %d", rec.BitsPerComp), fmt.Errorf("unsupported bit depth %d", rec.BitsPerComp)
		}
		raw := decompressRaw(sd)
		return decodeRawPixels(raw, rec)

	default:
		return nil, "unsupported filter", fmt.Errorf("unsupported filter chain %v", rec.FilterChain)
	}
}

func decompressRaw(sd types.StreamDict) []byte {
	if len(sd.FilterPipeline) == 0 {
		return sd.Raw
	}
	names := make([]string, len(sd.FilterPipeline))
	for i, f := range sd.FilterPipeline {
		names[i] = f.Name
	}
	parmsOf := func(i int) map[string]int {
		dp := sd.FilterPipeline[i].DecodeParms
		if dp == nil {
			return nil
		}
		out := map[string]int{}
		for k, v := range dp.Dict {
			if iv, ok := v.(types.Integer); ok {
				out[k] = int(iv)
			}
		}
		return out
	}
	out, err := filter.DecodePipeline(names, parmsOf, sd.Raw)
	if err != nil {
		return sd.Raw
	}
	return out
}

// decodeRawPixels interprets a decompressed raw payload per colour
// space layout: DeviceRGB 3 bytes/pixel, DeviceGray 1, DeviceCMYK 4
// (converted to RGB), ICCBased inferred Gray-vs-RGB by payload size.
func decodeRawPixels(raw []byte, rec ImageRecord) (*image.NRGBA, string, error) {
	w, h := rec.PixelWidth, rec.PixelHeight
	n := w * h

	cs := rec.ColorSpace
	if cs == "ICCBased" || cs == "" {
		switch {
		case len(raw) >= n*3:
			cs = "DeviceRGB"
		case len(raw) >= n:
			cs = "DeviceGray"
		default:
			return nil, "payload too small for declared dimensions", fmt.Errorf("short payload")
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	switch cs {
	case "DeviceGray", "CalGray":
		if len(raw) < n {
			return nil, "short grayscale payload", fmt.Errorf("short payload")
		}
		for i := 0; i < n; i++ {
			g := raw[i]
			out.SetNRGBA(i%w, i/w, color.NRGBA{R: g, G: g, B: g, A: 255})
		}

	case "DeviceRGB", "CalRGB":
		if len(raw) < n*3 {
			return nil, "short RGB payload", fmt.Errorf("short payload")
		}
		for i := 0; i < n; i++ {
			o := i * 3
			out.SetNRGBA(i%w, i/w, color.NRGBA{R: raw[o], G: raw[o+1], B: raw[o+2], A: 255})
		}

	case "DeviceCMYK":
		if len(raw) < n*4 {
			return nil, "short CMYK payload", fmt.Errorf("short payload")
		}
		for i := 0; i < n; i++ {
			o := i * 4
			c, m, y, k := float64(raw[o])/255, float64(raw[o+1])/255, float64(raw[o+2])/255, float64(raw[o+3])/255
			r := (1 - c) * (1 - k) * 255
			g := (1 - m) * (1 - k) * 255
			b := (1 - y) * (1 - k) * 255
			out.SetNRGBA(i%w, i/w, color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}

	default:
		return nil, "unsupported colour space " + cs, fmt.Errorf("unsupported colour space %s", cs)
	}

	return out, "", nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}

// toGray converts a decoded soft-mask image to a grayscale alpha plane,
// requiring its pixel dimensions to match the expected (w, h); a
// mismatch is treated as "no usable soft mask" rather than an error.
func toGray(img *image.NRGBA, w, h int) (*image.Gray, bool) {
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return nil, false
	}
	out := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, true
}

// resizeRGBA resizes src to (w, h) using golang.org/x/image/draw's
// Catmull-Rom kernel, the package's nearest available approximation to
// a Lanczos-3 reference filter (also unipdf's ImagePPI choice for the
// identical operation).
func resizeRGBA(src *image.NRGBA, w, h int) *image.NRGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func resizeGray(src *image.Gray, w, h int) *image.Gray {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// sampleHasAlpha treats an image as having meaningful alpha if any
// sampled alpha pixel is < 255, sampled every
// max(1, pixel_count/10000)-th pixel.
func sampleHasAlpha(g *image.Gray) bool {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	n := w * h
	if n == 0 {
		return false
	}
	stride := n / 10000
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < n; i += stride {
		x, y := i%w, i/w
		if g.GrayAt(b.Min.X+x, b.Min.Y+y).Y < 255 {
			return true
		}
	}
	return false
}

// encodeOpaque re-encodes an image with no alpha as JPEG at configured
// quality, 4:2:0 chroma subsampling (the standard library encoder's
// only mode for colour images), DeviceRGB, Filter=DCTDecode, SMask
// dropped.
func encodeOpaque(rgb *image.NRGBA, w, h, quality int) (types.StreamDict, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgb, &jpeg.Options{Quality: quality}); err != nil {
		return types.StreamDict{}, err
	}

	d := types.NewDict()
	d.Update("Type", types.Name("XObject"))
	d.Update("Subtype", types.Name("Image"))
	d.Update("Width", types.Integer(w))
	d.Update("Height", types.Integer(h))
	d.Update("ColorSpace", types.Name("DeviceRGB"))
	d.Update("BitsPerComponent", types.Integer(8))
	d.Update("Filter", types.Name(types.FilterDCT))
	d.Update("Length", types.Integer(buf.Len()))

	sd := types.NewStreamDict(d, buf.Bytes())
	return sd, nil
}

// encodeWithAlpha re-encodes an image with alpha: RGB channels raw,
// FlateDecode-compressed; it registers a fresh JPEG-encoded grayscale
// soft-mask object in ctx and wires the main stream's SMask entry to
// it. The prior soft-mask object is left unreferenced by this image but
// stays in ctx, and Serialize still writes it out.
func encodeWithAlpha(ctx *model.Context, rgb *image.NRGBA, alpha *image.Gray, w, h int) (types.StreamDict, error) {
	raw := make([]byte, 0, w*h*3)
	b := rgb.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := rgb.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			raw = append(raw, c.R, c.G, c.B)
		}
	}

	var flated bytes.Buffer
	zw := zlib.NewWriter(&flated)
	if _, err := zw.Write(raw); err != nil {
		return types.StreamDict{}, err
	}
	if err := zw.Close(); err != nil {
		return types.StreamDict{}, err
	}

	var maskBuf bytes.Buffer
	if err := jpeg.Encode(&maskBuf, alpha, &jpeg.Options{Quality: 90}); err != nil {
		return types.StreamDict{}, err
	}
	maskDict := types.NewDict()
	maskDict.Update("Type", types.Name("XObject"))
	maskDict.Update("Subtype", types.Name("Image"))
	maskDict.Update("Width", types.Integer(w))
	maskDict.Update("Height", types.Integer(h))
	maskDict.Update("ColorSpace", types.Name("DeviceGray"))
	maskDict.Update("BitsPerComponent", types.Integer(8))
	maskDict.Update("Filter", types.Name(types.FilterDCT))
	maskDict.Update("Length", types.Integer(maskBuf.Len()))
	maskStream := types.NewStreamDict(maskDict, maskBuf.Bytes())
	maskRef := ctx.AddObject(maskStream)

	d := types.NewDict()
	d.Update("Type", types.Name("XObject"))
	d.Update("Subtype", types.Name("Image"))
	d.Update("Width", types.Integer(w))
	d.Update("Height", types.Integer(h))
	d.Update("ColorSpace", types.Name("DeviceRGB"))
	d.Update("BitsPerComponent", types.Integer(8))
	d.Update("Filter", types.Name(types.FilterFlate))
	d.Update("Length", types.Integer(flated.Len()))
	d.Update("SMask", maskRef)

	sd := types.NewStreamDict(d, flated.Bytes())
	return sd, nil
}
