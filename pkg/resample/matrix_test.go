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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixIdentityConcat(t *testing.T) {
	m := NewMatrix(2, 0, 0, 3, 10, 20)
	assert.Equal(t, m, m.Concat(Identity))
	assert.Equal(t, m, Identity.Concat(m))
}

func TestMatrixScalePure(t *testing.T) {
	m := NewMatrix(600, 0, 0, 600, 0, 0)
	assert.InDelta(t, 600, m.ScaleX(), 1e-9)
	assert.InDelta(t, 600, m.ScaleY(), 1e-9)
}

func TestMatrixRotation90(t *testing.T) {
	// A cm matrix of "0 600 -600 0 600 0" is a 90 degree rotation;
	// sx == sy == 600 regardless of orientation.
	m := NewMatrix(0, 600, -600, 0, 600, 0)
	assert.InDelta(t, 600, m.ScaleX(), 1e-9)
	assert.InDelta(t, 600, m.ScaleY(), 1e-9)
}

func TestMatrixConcatNesting(t *testing.T) {
	// Page cm scale 300 concatenated with a form Matrix scale 2 yields a
	// child CTM scale of 600.
	page := NewMatrix(300, 0, 0, 300, 0, 0)
	form := NewMatrix(2, 0, 0, 2, 0, 0)
	child := page.Concat(form)
	assert.InDelta(t, 600, child.ScaleX(), 1e-9)
	assert.InDelta(t, 600, child.ScaleY(), 1e-9)

	// Image drawn with identity cm inside the form paints at the form's
	// own scale.
	imageCTM := child.Concat(Identity)
	assert.InDelta(t, 600, imageCTM.ScaleX(), 1e-9)
}

func TestMatrixConcatAssociative(t *testing.T) {
	a := NewMatrix(1, 2, 3, 4, 5, 6)
	b := NewMatrix(7, 8, 9, 10, 11, 12)
	c := NewMatrix(13, 14, 15, 16, 17, 18)

	left := a.Concat(b).Concat(c)
	right := a.Concat(b.Concat(c))

	assert.InDelta(t, left.A, right.A, 1e-6)
	assert.InDelta(t, left.B, right.B, 1e-6)
	assert.InDelta(t, left.C, right.C, 1e-6)
	assert.InDelta(t, left.D, right.D, 1e-6)
	assert.InDelta(t, left.E, right.E, 1e-6)
	assert.InDelta(t, left.F, right.F, 1e-6)
}
