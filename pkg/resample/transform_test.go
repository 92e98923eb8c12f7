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

	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestTransformSkipsUnsupportedFilter(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 50 0 0 50 0 0 cm /Im1 Do Q")),
		obj(5, `<< /Type /XObject /Subtype /Image /Width 400 /Height 400 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /CCITTFaxDecode >>`, []byte("bogus")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	displayInfo := Reduce(index, Analyze(ctx, index))

	outcomes, err := Transform(ctx, index, displayInfo, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.False(t, outcomes[0].Resampled)
	require.NotEmpty(t, outcomes[0].Reason)
}

func TestTransformSkipsWhenNeverPainted(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("")),
		obj(5, `<< /Type /XObject /Subtype /Image /Width 400 /Height 400 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode >>`, flateRaw(rgbPixels(400))),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	displayInfo := Reduce(index, Analyze(ctx, index))
	require.Empty(t, displayInfo)

	outcomes, err := Transform(ctx, index, displayInfo, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.False(t, outcomes[0].Resampled)
	require.Equal(t, "effective DPI already at or below target", outcomes[0].Reason)
}

func TestTransformDecodeResizeEncodeRoundTrip(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 72 0 0 72 0 0 cm /Im1 Do Q")),
		obj(5, `<< /Type /XObject /Subtype /Image /Width 288 /Height 288 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode >>`, flateRaw(rgbPixels(288))),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	displayInfo := Reduce(index, Analyze(ctx, index))
	id := types.ObjectID{Number: 5}
	di := displayInfo[id]
	require.InDelta(t, 288, di.MaxEffectiveDPI(), 1e-6)

	opts := DefaultOptions()
	opts.TargetDPI = 72
	outcomes, err := Transform(ctx, index, displayInfo, opts)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.True(t, outcomes[0].Resampled)
	require.Equal(t, 72, outcomes[0].NewWidth)
	require.Equal(t, 72, outcomes[0].NewHeight)
	require.False(t, outcomes[0].HasAlpha)

	replaced, ok := ctx.Dereference(id)
	require.True(t, ok)
	sd, ok := replaced.(types.StreamDict)
	require.True(t, ok)
	w, h, ok := sd.ImageDims()
	require.True(t, ok)
	require.Equal(t, 72, w)
	require.Equal(t, 72, h)
	require.True(t, sd.HasSoleFilterNamed(types.FilterDCT))
}

// grayHalftone returns n*n raw single-channel bytes, alternating 255
// and 0 so sampleHasAlpha (every max(1, n*n/10000)-th pixel) is
// guaranteed to observe a sub-255 value regardless of stride.
func grayHalftone(n int) []byte {
	out := make([]byte, n*n)
	for i := range out {
		if i%2 == 0 {
			out[i] = 255
		}
	}
	return out
}

// TestTransformWithAlphaProducesFreshJPEGSoftMask covers spec scenario
// (f): an image with a FlateDecode soft-mask whose sampled alpha
// contains values < 255. After resample, the main stream must carry a
// FlateDecode-compressed RGB payload (old SMask reference replaced,
// Filter switched to Flate) and its SMask entry must point to
// a freshly added DCTDecode-filtered grayscale object sized to the new
// (resampled) dimensions.
func TestTransformWithAlphaProducesFreshJPEGSoftMask(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 72 0 0 72 0 0 cm /Im1 Do Q")),
		obj(5, `<< /Type /XObject /Subtype /Image /Width 144 /Height 144 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode /SMask 6 0 R >>`, flateRaw(rgbPixels(144))),
		obj(6, `<< /Type /XObject /Subtype /Image /Width 144 /Height 144 /ColorSpace /DeviceGray /BitsPerComponent 8 /Filter /FlateDecode >>`, flateRaw(grayHalftone(144))),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	displayInfo := Reduce(index, Analyze(ctx, index))
	id := types.ObjectID{Number: 5}
	di := displayInfo[id]
	require.InDelta(t, 144, di.MaxEffectiveDPI(), 1e-6)

	maxObjBefore := ctx.MaxObjectNumber()

	opts := DefaultOptions()
	opts.TargetDPI = 72
	outcomes, err := Transform(ctx, index, displayInfo, opts)
	require.NoError(t, err)
	require.Len(t, outcomes, 2) // main image + soft-mask, both enumerated by BuildImageIndex
	var mainOutcome ImageOutcome
	for _, o := range outcomes {
		if o.ObjectID == id.String() {
			mainOutcome = o
		}
	}
	require.True(t, mainOutcome.Resampled)
	require.Equal(t, 72, mainOutcome.NewWidth)
	require.Equal(t, 72, mainOutcome.NewHeight)
	require.True(t, mainOutcome.HasAlpha)

	replaced, ok := ctx.Dereference(id)
	require.True(t, ok)
	sd, ok := replaced.(types.StreamDict)
	require.True(t, ok)
	w, h, ok := sd.ImageDims()
	require.True(t, ok)
	require.Equal(t, 72, w)
	require.Equal(t, 72, h)
	require.True(t, sd.HasSoleFilterNamed(types.FilterFlate))

	smv, found := sd.Find("SMask")
	require.True(t, found)
	smRef, ok := smv.(types.IndirectRef)
	require.True(t, ok)
	require.Greater(t, int(smRef.ID().Number), maxObjBefore, "soft-mask must be a freshly added object, not the orphaned original")

	smObj, ok := ctx.Dereference(smRef.ID())
	require.True(t, ok)
	smSD, ok := smObj.(types.StreamDict)
	require.True(t, ok)
	smW, smH, ok := smSD.ImageDims()
	require.True(t, ok)
	require.Equal(t, 72, smW)
	require.Equal(t, 72, smH)
	require.True(t, smSD.HasSoleFilterNamed(types.FilterDCT))
	if cs := smSD.NameEntry("ColorSpace"); cs != nil {
		require.Equal(t, "DeviceGray", *cs)
	}
}
