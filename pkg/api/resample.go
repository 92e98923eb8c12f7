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
	"os"

	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pdfresample/pdfresample/pkg/resample"
	"github.com/pkg/errors"
)

// Resample reads a PDF stream from r, analyzes every image's effective
// DPI, downsamples and re-encodes anything above opts.TargetDPI, and
// writes the rewritten PDF to w.
func Resample(r io.Reader, w io.Writer, opts *resample.Options) (resample.Result, error) {
	if r == nil {
		return resample.Result{}, errors.New("resample: Resample: missing r")
	}
	if opts == nil {
		o := resample.DefaultOptions()
		opts = &o
	}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return resample.Result{}, errors.Wrap(err, "resample: read failed")
	}

	result, err := resample.Resample(data, *opts)
	if err != nil {
		return resample.Result{}, err
	}

	if opts.Verbose {
		log.Stats.Printf("images: %d resampled, %d skipped\n", result.ResampledImages, result.SkippedImages)
	}

	if _, err := w.Write(result.Bytes); err != nil {
		return resample.Result{}, errors.Wrap(err, "resample: write failed")
	}

	return result, nil
}

// ResampleFile reads inFile and writes the resampled PDF to outFile. If
// outFile is empty, inFile is overwritten in place via a temp file and
// rename, mirroring the optimize pass's own file-oriented entry point.
func ResampleFile(inFile, outFile string, opts *resample.Options) (result resample.Result, err error) {
	var f1, f2 *os.File

	if f1, err = os.Open(inFile); err != nil {
		return resample.Result{}, err
	}

	tmpFile := inFile + ".tmp"
	if outFile != "" && inFile != outFile {
		tmpFile = outFile
		log.Info.Printf("writing %s...\n", outFile)
	} else {
		log.Info.Printf("writing %s...\n", inFile)
	}

	if f2, err = os.Create(tmpFile); err != nil {
		f1.Close()
		return resample.Result{}, err
	}

	defer func() {
		if err != nil {
			f2.Close()
			f1.Close()
			if outFile == "" || inFile == outFile {
				os.Remove(tmpFile)
			}
			return
		}
		if err = f2.Close(); err != nil {
			return
		}
		if err = f1.Close(); err != nil {
			return
		}
		if outFile == "" || inFile == outFile {
			err = os.Rename(tmpFile, inFile)
		}
	}()

	result, err = Resample(f1, f2, opts)
	return result, err
}
