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
	"github.com/stretchr/testify/require"
)

func oversampledPDF() []byte {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 100 0 0 100 0 0 cm /Im1 Do Q")),
		obj(5, `<< /Type /XObject /Subtype /Image /Width 400 /Height 400 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Filter /FlateDecode >>`, flateRaw(rgbPixels(400))),
	}
	return buildPDF(objs, 1)
}

func TestResampleRejectsInvalidQuality(t *testing.T) {
	opts := DefaultOptions()
	opts.Quality = 0
	_, err := Resample(oversampledPDF(), opts)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, InvalidQuality, kind)
}

// A target DPI at or above the image's effective DPI must resample
// nothing: 400px over a 100pt display is 288 DPI, well below the 600 target.
func TestResampleNoopWhenTargetAboveEffectiveDPI(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetDPI = 600

	result, err := Resample(oversampledPDF(), opts)
	require.NoError(t, err)
	require.Equal(t, 0, result.ResampledImages)
	require.Equal(t, 1, result.SkippedImages)
	require.Equal(t, result.TotalImages(), result.ResampledImages+result.SkippedImages)
}

func TestResampleReducesOversampledImage(t *testing.T) {
	opts := DefaultOptions()
	opts.TargetDPI = 72

	result, err := Resample(oversampledPDF(), opts)
	require.NoError(t, err)
	require.Equal(t, 1, result.ResampledImages)
	require.Equal(t, 0, result.SkippedImages)
	require.Len(t, result.Images, 1)
	require.True(t, result.Images[0].Resampled)
	require.Equal(t, 100, result.Images[0].NewWidth)
	require.Equal(t, 100, result.Images[0].NewHeight)

	// A second pass over the already-downsampled result must not shrink
	// it further: the new image is already at or below target DPI.
	ctx, err := model.Parse(result.Bytes)
	require.NoError(t, err)
	index := BuildImageIndex(ctx)
	require.Len(t, index, 1)

	second, err := Resample(result.Bytes, opts)
	require.NoError(t, err)
	require.Equal(t, 0, second.ResampledImages)
}
