/*
Copyright 2018 The pdfcpu Authors.

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

package types

import "strings"

// Array represents a PDF array object.
type Array []Object

// NewNumberArray returns an Array of Float entries.
func NewNumberArray(fVars ...float64) Array {
	a := make(Array, 0, len(fVars))
	for _, f := range fVars {
		a = append(a, Float(f))
	}
	return a
}

// NewNameArray returns an Array of Name entries.
func NewNameArray(names ...string) Array {
	a := make(Array, 0, len(names))
	for _, s := range names {
		a = append(a, Name(s))
	}
	return a
}

func (a Array) String() string {
	ss := make([]string, len(a))
	for i, o := range a {
		if o == nil {
			ss[i] = "<nil>"
			continue
		}
		ss[i] = o.String()
	}
	return "[" + strings.Join(ss, " ") + "]"
}

// PDFString returns a string representation as found in and written to a PDF file.
func (a Array) PDFString() string {
	ss := make([]string, len(a))
	for i, o := range a {
		if o == nil {
			ss[i] = "null"
			continue
		}
		ss[i] = o.PDFString()
	}
	return "[" + strings.Join(ss, " ") + "]"
}
