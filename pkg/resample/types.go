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
	"math"

	"github.com/pdfresample/pdfresample/pkg/types"
)

// ImageRecord describes one Image XObject as enumerated by the image
// index. Immutable until the transformer replaces the underlying
// stream.
type ImageRecord struct {
	ObjectID    types.ObjectID
	PixelWidth  int
	PixelHeight int
	ColorSpace  string
	BitsPerComp int
	FilterChain []string
	PayloadSize int
	SMaskID     *types.ObjectID
}

// DisplayObservation is one recorded on-page paint of an image, in
// device-independent points. Both fields are always strictly positive;
// the interpreter never appends a non-positive observation.
type DisplayObservation struct {
	DisplayWidth  float64
	DisplayHeight float64
}

func (o DisplayObservation) area() float64 { return o.DisplayWidth * o.DisplayHeight }

// ImageDisplayInfo is the per-image aggregation the DPI reducer emits:
// pixel dimensions carried over from the ImageRecord plus the chosen
// (largest-area) display size and its derived effective DPI.
type ImageDisplayInfo struct {
	ObjectID      types.ObjectID
	PixelWidth    int
	PixelHeight   int
	DisplayWidth  float64 // points
	DisplayHeight float64 // points
}

// EffectiveDPIX is pixel_width / (display_width_points / 72).
func (i ImageDisplayInfo) EffectiveDPIX() float64 {
	return float64(i.PixelWidth) / (i.DisplayWidth / 72)
}

// EffectiveDPIY is pixel_height / (display_height_points / 72).
func (i ImageDisplayInfo) EffectiveDPIY() float64 {
	return float64(i.PixelHeight) / (i.DisplayHeight / 72)
}

// MaxEffectiveDPI is the larger of the two axis DPIs; edge length, not
// area, is what drives visible blur, so the interpreter and the
// transformer both reason in terms of this single scalar.
func (i ImageDisplayInfo) MaxEffectiveDPI() float64 {
	return math.Max(i.EffectiveDPIX(), i.EffectiveDPIY())
}

// TargetPixels returns the pixel dimensions that would render this
// image's chosen display size at targetDPI, clamped to at least 1x1.
func (i ImageDisplayInfo) TargetPixels(targetDPI float64) (width, height int) {
	w := int(math.Round(i.DisplayWidth / 72 * targetDPI))
	h := int(math.Round(i.DisplayHeight / 72 * targetDPI))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
