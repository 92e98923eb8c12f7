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

// Package resample implements the effective-DPI analyzer and the image
// transformer: the content-stream tokenizer, the graphics-state
// interpreter that walks Form XObjects/tiling patterns/SMask groups/
// annotation appearances tracking a CTM stack, the DPI reducer, and the
// resample/re-encode pass that swaps oversampled image streams in
// place.
package resample

import (
	"fmt"
	"math"
)

// Matrix is a 2-D affine transform
//
//	| A B 0 |
//	| C D 0 |
//	| E F 1 |
//
// applied to row vectors: (x y 1) * M.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the identity transform.
var Identity = Matrix{A: 1, D: 1}

// NewMatrix builds a Matrix from the six operands of a content-stream
// "cm" operator, in a b c d e f order.
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Concat returns the transform equivalent to applying m first and then
// other, i.e. point * m * other. This is the "self-then-other" ordering
// used throughout the graphics-state interpreter: a "cm" operator
// concatenates its matrix onto the existing CTM as top.Concat(cmMatrix),
// and recursing into a Form XObject concatenates the caller's CTM with
// the form's own /Matrix as parentCTM.Concat(formMatrix).
func (m Matrix) Concat(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
		E: m.E*other.A + m.F*other.C + other.E,
		F: m.E*other.B + m.F*other.D + other.F,
	}
}

// ScaleX is the Euclidean norm of the matrix's first row (A, B), the
// painted width in user-space points of a unit-square image mapped
// through m. Using sqrt(a^2+b^2) rather than the determinant or the
// bounding box is deliberate: exact for pure scale,
// correct for rotation, a reasonable approximation for shear.
func (m Matrix) ScaleX() float64 {
	return math.Sqrt(m.A*m.A + m.B*m.B)
}

// ScaleY is the Euclidean norm of the matrix's second row (C, D), the
// painted height in user-space points of a unit-square image mapped
// through m.
func (m Matrix) ScaleY() float64 {
	return math.Sqrt(m.C*m.C + m.D*m.D)
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%g %g %g %g %g %g]", m.A, m.B, m.C, m.D, m.E, m.F)
}
