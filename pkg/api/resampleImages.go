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

package api

import (
	"io"
	"io/ioutil"

	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/resample"
	"github.com/pkg/errors"
)

// ExtractImageInfo returns, per page number, the image inspection
// record (object id, pixel size, colour space, filter, and effective
// DPI when known) for every image XObject in r.
func ExtractImageInfo(r io.Reader) (map[int][]resample.ImageInfo, error) {
	if r == nil {
		return nil, errors.New("resample: ExtractImageInfo: missing r")
	}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "resample: read failed")
	}

	ctx, err := model.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "resample: parse failed")
	}

	index := resample.BuildImageIndex(ctx)
	displayInfo := resample.Reduce(index, resample.Analyze(ctx, index))

	return resample.ExtractImageInfo(ctx, displayInfo), nil
}

// ExtractImageNative returns one image's native byte representation
// (JPEG passthrough, or decoded and re-encoded as PNG) by its
// "num gen" object-id key.
func ExtractImageNative(r io.Reader, key string) ([]byte, string, error) {
	if r == nil {
		return nil, "", errors.New("resample: ExtractImageNative: missing r")
	}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, "", errors.Wrap(err, "resample: read failed")
	}

	ctx, err := model.Parse(data)
	if err != nil {
		return nil, "", errors.Wrap(err, "resample: parse failed")
	}

	return resample.ExtractImageNative(ctx, key)
}
