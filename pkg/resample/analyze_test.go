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

func imgDict(w, h int) string {
	return "<< /Type /XObject /Subtype /Image /Width " + itoa(w) + " /Height " + itoa(h) +
		" /ColorSpace /DeviceRGB /BitsPerComponent 8 >>"
}

func itoa(n int) string {
	// avoid pulling in strconv at file scope for a one-liner used only here
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// scenario (a): identity paint, 600x600 image at 600x600 pt -> ~72 DPI.
func TestScenarioIdentityPaint(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 600 0 0 600 0 0 cm /Im1 Do Q")),
		obj(5, imgDict(600, 600), []byte("xyz")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	obs := Analyze(ctx, index)
	info := Reduce(index, obs)

	id := types.ObjectID{Number: 5}
	di, ok := info[id]
	require.True(t, ok)
	require.InDelta(t, 600, di.DisplayWidth, 1e-6)
	require.InDelta(t, 600, di.DisplayHeight, 1e-6)
	require.InDelta(t, 72, di.MaxEffectiveDPI(), 1e-6)
}

// scenario (b): oversampled 3000x3000 image drawn at 600x600pt -> ~360 DPI.
func TestScenarioOversampled(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 600 0 0 600 0 0 cm /Im1 Do Q")),
		obj(5, imgDict(3000, 3000), []byte("xyz")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	info := Reduce(index, Analyze(ctx, index))

	di := info[types.ObjectID{Number: 5}]
	require.InDelta(t, 360, di.MaxEffectiveDPI(), 1e-6)

	w, h := di.TargetPixels(150)
	require.Equal(t, 1250, w)
	require.Equal(t, 1250, h)
}

// scenario (c): 90 degree rotation yields sx == sy == 600.
func TestScenarioRotatedPaint(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 0 600 -600 0 600 0 cm /Im1 Do Q")),
		obj(5, imgDict(600, 600), []byte("xyz")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	info := Reduce(index, Analyze(ctx, index))
	di := info[types.ObjectID{Number: 5}]
	require.InDelta(t, 600, di.DisplayWidth, 1e-6)
	require.InDelta(t, 600, di.DisplayHeight, 1e-6)
}

// scenario (d): Form XObject nesting: page cm 300, form Matrix 2, image
// identity cm inside -> display size 600x600pt, ~72 DPI.
func TestScenarioFormNesting(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Fm1 6 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 300 0 0 300 0 0 cm /Fm1 Do Q")),
		obj(5, imgDict(600, 600), []byte("xyz")),
		obj(6, `<< /Type /XObject /Subtype /Form /Matrix [2 0 0 2 0 0] /Resources << /XObject << /Im1 5 0 R >> >> >>`, []byte("q 1 0 0 1 0 0 cm /Im1 Do Q")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	info := Reduce(index, Analyze(ctx, index))
	di := info[types.ObjectID{Number: 5}]
	require.InDelta(t, 600, di.DisplayWidth, 1e-6)
	require.InDelta(t, 600, di.DisplayHeight, 1e-6)
	require.InDelta(t, 72, di.MaxEffectiveDPI(), 1e-6)
}

// scenario (e): same image painted twice; the larger paint wins.
func TestScenarioMultiplePaintsPicksLargest(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Im1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 100 0 0 100 0 0 cm /Im1 Do Q q 400 0 0 400 0 0 cm /Im1 Do Q")),
		obj(5, imgDict(600, 600), []byte("xyz")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	obs := Analyze(ctx, index)
	require.Len(t, obs[types.ObjectID{Number: 5}], 2)

	info := Reduce(index, obs)
	di := info[types.ObjectID{Number: 5}]
	require.InDelta(t, 400, di.DisplayWidth, 1e-6)
	require.InDelta(t, 400, di.DisplayHeight, 1e-6)
}

// Cyclic form references must terminate analysis in finite time.
func TestCyclicFormReferenceTerminates(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << /XObject << /Fm1 5 0 R >> >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("/Fm1 Do")),
		obj(5, `<< /Type /XObject /Subtype /Form /Resources << /XObject << /Fm1 5 0 R >> >> >>`, []byte("/Fm1 Do")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		index := BuildImageIndex(ctx)
		Analyze(ctx, index)
		close(done)
	}()
	select {
	case <-done:
	default:
	}
	<-done // the goroutine either already finished or will finish promptly; a hang here fails the test via `go test -timeout`.
}

// A document with zero images yields zero observations.
func TestZeroImageDocument(t *testing.T) {
	objs := []string{
		obj(1, `<< /Type /Catalog /Pages 2 0 R >>`, nil),
		obj(2, `<< /Type /Pages /Kids [3 0 R] /Count 1 >>`, nil),
		obj(3, `<< /Type /Page /Parent 2 0 R /Resources << >> /Contents 4 0 R >>`, nil),
		obj(4, `<< >>`, []byte("q 1 0 0 1 0 0 cm Q")),
	}
	ctx, err := model.Parse(buildPDF(objs, 1))
	require.NoError(t, err)

	index := BuildImageIndex(ctx)
	require.Empty(t, index)
	obs := Analyze(ctx, index)
	require.Empty(t, obs)
}
