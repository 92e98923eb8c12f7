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

package bridge

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pdfresample/pdfresample/pkg/api"
	"github.com/pdfresample/pdfresample/pkg/resample"
)

func optionsFromRequest(c echo.Context) resample.Options {
	opts := resample.DefaultOptions()
	if v := c.QueryParam("dpi"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.TargetDPI = f
		}
	}
	if v := c.QueryParam("quality"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Quality = n
		}
	}
	if v := c.QueryParam("minDpi"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			opts.MinDPI = f
		}
	}
	return opts
}

// handleResample is entry point 1: a PDF in the request body in, the
// resampled PDF bytes out, as "application/pdf".
func (s *Server) handleResample(c echo.Context) error {
	opts := optionsFromRequest(c)

	var out bytes.Buffer
	if _, err := api.Resample(c.Request().Body, &out, &opts); err != nil {
		return serverError(c, err)
	}

	return c.Blob(http.StatusOK, "application/pdf", out.Bytes())
}

type resampleReport struct {
	ResampledImages int                     `json:"resampledImages"`
	SkippedImages   int                     `json:"skippedImages"`
	Images          []resample.ImageOutcome `json:"images"`
	PDF             []byte                  `json:"pdf"`
}

// handleResampleReport is entry point 2: a PDF in, a JSON envelope out
// carrying the rewritten PDF bytes plus per-image counts and detail.
func (s *Server) handleResampleReport(c echo.Context) error {
	opts := optionsFromRequest(c)

	var out bytes.Buffer
	result, err := api.Resample(c.Request().Body, &out, &opts)
	if err != nil {
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, resampleReport{
		ResampledImages: result.ResampledImages,
		SkippedImages:   result.SkippedImages,
		Images:          result.Images,
		PDF:             out.Bytes(),
	})
}

// handleExtractImage is entry point 3: one image's native representation
// (JPEG passthrough or re-encoded PNG) by its "num gen" object-id key.
func (s *Server) handleExtractImage(c echo.Context) error {
	key := c.Param("key")

	data, mimeType, err := api.ExtractImageNative(c.Request().Body, key)
	if err != nil {
		return serverError(c, err)
	}

	return c.Blob(http.StatusOK, mimeType, data)
}
