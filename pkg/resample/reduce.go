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

import "github.com/pdfresample/pdfresample/pkg/types"

// Reduce picks, for every ObjectID with at least one observation and a
// known pixel size, the observation with the largest area, ties broken
// by first encountered in scan order (the observation slices are
// already in scan order since the analyzer only appends). Images
// never painted have no entry; callers (the transformer) treat that as
// "unknown".
func Reduce(index map[types.ObjectID]ImageRecord, observations map[types.ObjectID][]DisplayObservation) map[types.ObjectID]ImageDisplayInfo {
	out := make(map[types.ObjectID]ImageDisplayInfo, len(observations))

	for id, obs := range observations {
		if len(obs) == 0 {
			continue
		}
		rec, known := index[id]
		if !known {
			continue
		}

		best := obs[0]
		for _, o := range obs[1:] {
			if o.area() > best.area() {
				best = o
			}
		}

		out[id] = ImageDisplayInfo{
			ObjectID:      id,
			PixelWidth:    rec.PixelWidth,
			PixelHeight:   rec.PixelHeight,
			DisplayWidth:  best.DisplayWidth,
			DisplayHeight: best.DisplayHeight,
		}
	}

	return out
}
