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

// Options configures one resample operation. Zero values
// are not meaningful defaults for every field (a zero Quality is
// invalid); always start from DefaultOptions.
type Options struct {
	TargetDPI       float64
	Quality         int
	MinDPI          float64
	CompressStreams bool
	Verbose         bool
}

// DefaultOptions returns the documented defaults: target 150 DPI,
// quality 75, min DPI 0, stream compression on, non-verbose.
func DefaultOptions() Options {
	return Options{
		TargetDPI:       150,
		Quality:         75,
		MinDPI:          0,
		CompressStreams: true,
		Verbose:         false,
	}
}

// Validate rejects a Quality outside [1,100]; every other field is
// accepted as supplied (a non-positive TargetDPI shrinks every image
// whose effective DPI exceeds TargetDPI+1 and MinDPI to 1x1 pixels,
// painted or not, which is a legitimate, if unusual, request).
func (o Options) Validate() error {
	if o.Quality < 1 || o.Quality > 100 {
		return newErrorf(InvalidQuality, "resample: quality %d outside [1,100]", o.Quality)
	}
	return nil
}

// Result is the outcome of one Resample call: the rewritten PDF bytes
// plus per-document counters and the per-image detail (always filled)
// that the browser bridge's second entry point surfaces as JSON.
type Result struct {
	Bytes           []byte
	ResampledImages int
	SkippedImages   int
	Images          []ImageOutcome
}

// TotalImages is ResampledImages + SkippedImages.
func (r Result) TotalImages() int { return r.ResampledImages + r.SkippedImages }

// ImageOutcome records what happened to a single image during
// transformation, for verbose logging and for the bridge's structured
// response.
type ImageOutcome struct {
	ObjectID     string
	Resampled    bool
	Reason       string // skip reason, empty when Resampled
	PixelWidth   int
	PixelHeight  int
	NewWidth     int
	NewHeight    int
	EffectiveDPI float64
	HasAlpha     bool
}
