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
	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pdfresample/pdfresample/pkg/model"
)

// Resample validates options, loads the document once to analyze it
// against an immutable view, reduces the observations to a flat
// per-image mapping, then loads the document a second time and mutates
// it exclusively. The double-load is a deliberate simplification that
// keeps the analyzer free of any awareness of planned mutations.
func Resample(data []byte, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	analysisCtx, err := model.Parse(data)
	if err != nil {
		return Result{}, newError(LoadError, err)
	}

	index := BuildImageIndex(analysisCtx)
	observations := Analyze(analysisCtx, index)
	displayInfo := Reduce(index, observations)

	if opts.Verbose {
		for id, info := range displayInfo {
			log.Info.Printf("%s: %dx%d px, display %.1fx%.1f pt, effective DPI %.1f",
				id, info.PixelWidth, info.PixelHeight, info.DisplayWidth, info.DisplayHeight, info.MaxEffectiveDPI())
		}
	}

	transformCtx, err := model.Parse(data)
	if err != nil {
		return Result{}, newError(LoadError, err)
	}

	outcomes, err := Transform(transformCtx, index, displayInfo, opts)
	if err != nil {
		return Result{}, newError(ProcessingError, err)
	}

	out, err := model.Serialize(transformCtx, opts.CompressStreams)
	if err != nil {
		return Result{}, newError(SaveError, err)
	}

	result := Result{Bytes: out, Images: outcomes}
	for _, o := range outcomes {
		if o.Resampled {
			result.ResampledImages++
			if opts.Verbose {
				log.Stats.Printf("resampled %s: %dx%d -> %dx%d (dpi %.1f)", o.ObjectID, o.PixelWidth, o.PixelHeight, o.NewWidth, o.NewHeight, o.EffectiveDPI)
			}
		} else {
			result.SkippedImages++
			if opts.Verbose {
				log.Stats.Printf("skipped %s: %s", o.ObjectID, o.Reason)
			}
		}
	}

	return result, nil
}
