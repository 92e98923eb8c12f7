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

// Package main provides the command line for pdfresample.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	dpi             float64
	quality         int
	minDPI          float64
	compressStreams bool
	verbose         bool
	configPath      string
	outFile         string
	objKey          string

	needStackTrace = true
)

func init() {
	flag.Float64Var(&dpi, "dpi", 150, "resample: target effective DPI")
	flag.IntVar(&quality, "quality", 75, "resample: JPEG quality for opaque images, 1-100")
	flag.Float64Var(&minDPI, "min-dpi", 0, "resample: never touch images already at or below this DPI")
	flag.BoolVar(&compressStreams, "compress-streams", true, "resample: FlateDecode-compress unfiltered streams on write")
	flag.BoolVar(&verbose, "verbose", false, "print per-image detail")
	flag.BoolVar(&verbose, "v", false, "print per-image detail")
	flag.StringVar(&configPath, "config", "", "path to a YAML configuration file")
	flag.StringVar(&outFile, "out", "", "output file (resample: defaults to overwriting the input)")
	flag.StringVar(&objKey, "key", "", `extract: image object id, "num gen"`)
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	command := os.Args[1]
	if command == "h" || command == "help" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(0)
	}

	if err := flag.CommandLine.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	needStackTrace = verbose
	setupLogging(verbose)

	args := flag.Args()

	var err error
	switch command {
	case "resample":
		err = runResample(args)
	case "info":
		err = runInfo(args)
	case "extract":
		err = runExtract(args)
	default:
		fmt.Fprintf(os.Stderr, "pdfresample: unknown subcommand %q\n", command)
		fmt.Fprintln(os.Stderr, "Run 'pdfresample help' for usage.")
		os.Exit(1)
	}

	if err != nil {
		if needStackTrace {
			fmt.Fprintf(os.Stderr, "Fatal: %+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
}

const usage = `pdfresample analyzes and downsamples oversampled images embedded in PDF files.

Usage:

	pdfresample resample [-dpi n] [-quality n] [-min-dpi n] [-compress-streams] [-out file] inFile
	pdfresample info inFile
	pdfresample extract -key "num gen" [-out file] inFile
	pdfresample help

Flags:

	-dpi               target effective DPI (default 150)
	-quality           JPEG quality 1-100 for re-encoded opaque images (default 75)
	-min-dpi           never touch images already at or below this DPI
	-compress-streams  FlateDecode-compress unfiltered streams on write (default true)
	-verbose, -v       print per-image resample/skip detail
	-config            path to a YAML configuration file
	-out               output file (resample defaults to overwriting the input)
`
