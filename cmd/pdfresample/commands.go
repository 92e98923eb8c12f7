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

package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/pdfresample/pdfresample/pkg/api"
	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/resample"
	"github.com/pkg/errors"
)

func setupLogging(verbose bool) {
	if verbose {
		log.SetDefaultLoggers()
		return
	}
	log.SetDefaultStatsLogger()
}

func optionsFromFlags() (*resample.Options, error) {
	if configPath != "" {
		conf, err := model.LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		opts := resample.Options{
			TargetDPI:       conf.TargetDPI,
			Quality:         conf.Quality,
			MinDPI:          conf.MinDPI,
			CompressStreams: conf.CompressStreams,
			Verbose:         conf.Verbose || verbose,
		}
		// Flags set explicitly on the command line win over the file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "dpi":
				opts.TargetDPI = dpi
			case "quality":
				opts.Quality = quality
			case "min-dpi":
				opts.MinDPI = minDPI
			case "compress-streams":
				opts.CompressStreams = compressStreams
			}
		})
		return &opts, nil
	}

	opts := resample.Options{
		TargetDPI:       dpi,
		Quality:         quality,
		MinDPI:          minDPI,
		CompressStreams: compressStreams,
		Verbose:         verbose,
	}
	return &opts, nil
}

func runResample(args []string) error {
	if len(args) != 1 {
		return errors.New("pdfresample resample: usage: pdfresample resample [flags] inFile")
	}
	inFile := args[0]

	opts, err := optionsFromFlags()
	if err != nil {
		return err
	}

	out := outFile
	if out == "" {
		out = inFile
	}

	result, err := api.ResampleFile(inFile, out, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "resampled %d of %d images (%d skipped)\n", result.ResampledImages, result.TotalImages(), result.SkippedImages)
	if opts.Verbose {
		printImageTable(result.Images)
	}
	return nil
}

func runInfo(args []string) error {
	if len(args) != 1 {
		return errors.New("pdfresample info: usage: pdfresample info inFile")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	byPage, err := api.ExtractImageInfo(f)
	if err != nil {
		return err
	}

	pages := make([]int, 0, len(byPage))
	for p := range byPage {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	for _, p := range pages {
		fmt.Fprintf(os.Stdout, "page %d:\n", p)
		for _, img := range byPage[p] {
			line := fmt.Sprintf("  %-10s %-6s %4dx%-4d %-10s bpc=%d filter=%-12s size=%d",
				img.ObjectID, img.Type, img.Width, img.Height, img.ColorSpace, img.BPC, img.Filter, img.Size)
			if img.DPIX != nil {
				line += fmt.Sprintf(" dpi=%.0fx%.0f", *img.DPIX, *img.DPIY)
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}
	return nil
}

func runExtract(args []string) error {
	if len(args) != 1 {
		return errors.New("pdfresample extract: usage: pdfresample extract -key \"num gen\" inFile")
	}
	if objKey == "" {
		return errors.New("pdfresample extract: -key is required")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	data, mimeType, err := api.ExtractImageNative(f, objKey)
	if err != nil {
		return err
	}

	out := outFile
	if out == "" {
		ext := ".png"
		if mimeType == "image/jpeg" {
			ext = ".jpg"
		}
		out = "image" + ext
	}

	return os.WriteFile(out, data, 0644)
}

// printImageTable renders verbose per-image outcomes as a fixed-width
// table, padding on rune width rather than byte length so object-id
// strings stay aligned regardless of width.
func printImageTable(images []resample.ImageOutcome) {
	header := []string{"object", "px", "dpi", "new px", "alpha", "result"}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}

	rows := make([][]string, len(images))
	for i, img := range images {
		px := fmt.Sprintf("%dx%d", img.PixelWidth, img.PixelHeight)
		newPx := "-"
		if img.Resampled {
			newPx = fmt.Sprintf("%dx%d", img.NewWidth, img.NewHeight)
		}
		result := "resampled"
		if !img.Resampled {
			result = img.Reason
		}
		row := []string{img.ObjectID, px, fmt.Sprintf("%.0f", img.EffectiveDPI), newPx, fmt.Sprintf("%v", img.HasAlpha), result}
		rows[i] = row
		for j, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	printRow(header, widths)
	for _, row := range rows {
		printRow(row, widths)
	}
}

func printRow(cells []string, widths []int) {
	for i, cell := range cells {
		pad := widths[i] - runewidth.StringWidth(cell)
		fmt.Fprint(os.Stdout, cell)
		for ; pad > 0; pad-- {
			fmt.Fprint(os.Stdout, " ")
		}
		fmt.Fprint(os.Stdout, "  ")
	}
	fmt.Fprintln(os.Stdout)
}
