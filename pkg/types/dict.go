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

// Dict represents a PDF dictionary object.
type Dict struct {
	Dict map[string]Object
}

// NewDict returns a new, empty Dict.
func NewDict() Dict {
	return Dict{Dict: map[string]Object{}}
}

// Len returns the number of entries in this Dict.
func (d Dict) Len() int {
	return len(d.Dict)
}

// Insert adds a new (key, value) entry. Returns false if key is already present.
func (d Dict) Insert(key string, value Object) bool {
	if _, found := d.Find(key); found {
		return false
	}
	d.Dict[key] = value
	return true
}

// Update overwrites or adds an entry.
func (d Dict) Update(key string, value Object) {
	if value != nil {
		d.Dict[key] = value
	}
}

// Find returns the Object for key, and whether it was present.
func (d Dict) Find(key string) (Object, bool) {
	v, ok := d.Dict[key]
	return v, ok
}

// Delete removes the entry for key, returning its prior value if any.
func (d Dict) Delete(key string) Object {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	delete(d.Dict, key)
	return v
}

// NameEntry returns the Name value for key, or nil if absent or of a different type.
func (d Dict) NameEntry(key string) *string {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	if n, ok := v.(Name); ok {
		s := string(n)
		return &s
	}
	return nil
}

// IntEntry returns the Integer value for key, or nil if absent or of a different type.
func (d Dict) IntEntry(key string) *int {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	if i, ok := v.(Integer); ok {
		n := int(i)
		return &n
	}
	return nil
}

// NumberEntry returns key as a float64, accepting both Integer and Float.
func (d Dict) NumberEntry(key string) *float64 {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	switch o := v.(type) {
	case Integer:
		f := float64(o)
		return &f
	case Float:
		f := float64(o)
		return &f
	}
	return nil
}

// BooleanEntry returns the Boolean value for key, or nil if absent or of a different type.
func (d Dict) BooleanEntry(key string) *bool {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	if b, ok := v.(Boolean); ok {
		bb := bool(b)
		return &bb
	}
	return nil
}

// ArrayEntry returns the Array value for key, or nil if absent or of a different type.
func (d Dict) ArrayEntry(key string) Array {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	if a, ok := v.(Array); ok {
		return a
	}
	return nil
}

// DictEntry returns the Dict value for key, or nil if absent or of a different type.
func (d Dict) DictEntry(key string) *Dict {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	if sub, ok := v.(Dict); ok {
		return &sub
	}
	return nil
}

// IndirectRefEntry returns the IndirectRef value for key, or nil if absent or of a different type.
func (d Dict) IndirectRefEntry(key string) *IndirectRef {
	v, found := d.Find(key)
	if !found {
		return nil
	}
	if ir, ok := v.(IndirectRef); ok {
		return &ir
	}
	return nil
}

// Type returns the value of the /Type entry, if present.
func (d Dict) Type() *string {
	return d.NameEntry("Type")
}

// Subtype returns the value of the /Subtype entry, if present.
func (d Dict) Subtype() *string {
	return d.NameEntry("Subtype")
}

// IsImageDict reports whether this dict describes an Image XObject.
func (d Dict) IsImageDict() bool {
	st := d.Subtype()
	return st != nil && *st == "Image"
}

func (d Dict) String() string {
	var sb strings.Builder
	sb.WriteString("<<")
	for k, v := range d.Dict {
		sb.WriteString(" /")
		sb.WriteString(k)
		sb.WriteString(" ")
		if v == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(v.String())
		}
	}
	sb.WriteString(" >>")
	return sb.String()
}

// PDFString returns a string representation as found in and written to a PDF file.
func (d Dict) PDFString() string {
	var sb strings.Builder
	sb.WriteString("<<")
	for k, v := range d.Dict {
		sb.WriteString(" /")
		sb.WriteString(k)
		sb.WriteString(" ")
		if v == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(v.PDFString())
		}
	}
	sb.WriteString(" >>")
	return sb.String()
}
