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

package model

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Configuration holds the resampling defaults plus the handful of
// ambient settings carried over from the document-processing style this
// module grew out of. Flags supplied on the CLI override a loaded
// Configuration; a loaded Configuration overrides these defaults.
type Configuration struct {
	Path string

	TargetDPI       float64
	Quality         int
	MinDPI          float64
	CompressStreams bool
	Verbose         bool

	CheckFileNameExt bool
	TimestampFormat  string
	Unit             string
}

// NewDefaultConfiguration returns a Configuration with the resample
// pipeline's documented defaults.
func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		TargetDPI:        150,
		Quality:          75,
		MinDPI:           0,
		CompressStreams:  true,
		Verbose:          false,
		CheckFileNameExt: true,
		TimestampFormat:  "2006-01-02 15:04:05 MST",
		Unit:             "points",
	}
}

type yamlConfiguration struct {
	TargetDPI        float64 `yaml:"targetDPI"`
	Quality          int     `yaml:"quality"`
	MinDPI           float64 `yaml:"minDPI"`
	CompressStreams  bool    `yaml:"compressStreams"`
	Verbose          bool    `yaml:"verbose"`
	CheckFileNameExt bool    `yaml:"checkFileNameExt"`
	TimestampFormat  string  `yaml:"timestampFormat"`
	Unit             string  `yaml:"unit"`
}

// LoadConfigFile reads a YAML configuration file, overlaying its values
// atop the documented defaults. Zero-value YAML fields that were simply
// omitted from the file do not clobber the default (a file that only
// sets "quality: 60" leaves targetDPI etc. at their defaults).
func LoadConfigFile(path string) (*Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open config file %q", path)
	}
	defer f.Close()

	conf := NewDefaultConfiguration()
	conf.Path = path

	if err := parseConfig(f, conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func parseConfig(r io.Reader, conf *Configuration) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}

	var c yamlConfiguration
	c.TargetDPI = conf.TargetDPI
	c.Quality = conf.Quality
	c.MinDPI = conf.MinDPI
	c.CompressStreams = conf.CompressStreams
	c.Verbose = conf.Verbose
	c.CheckFileNameExt = conf.CheckFileNameExt
	c.TimestampFormat = conf.TimestampFormat
	c.Unit = conf.Unit

	if err := yaml.Unmarshal(buf.Bytes(), &c); err != nil {
		return errors.Wrap(err, "parsing config file")
	}

	if c.Quality < 1 || c.Quality > 100 {
		return errors.Errorf("invalid quality in config file: %d", c.Quality)
	}

	conf.TargetDPI = c.TargetDPI
	conf.Quality = c.Quality
	conf.MinDPI = c.MinDPI
	conf.CompressStreams = c.CompressStreams
	conf.Verbose = c.Verbose
	conf.CheckFileNameExt = c.CheckFileNameExt
	conf.TimestampFormat = c.TimestampFormat
	conf.Unit = c.Unit

	return nil
}
