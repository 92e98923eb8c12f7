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
	"bytes"

	"github.com/pdfresample/pdfresample/pkg/filter"
	"github.com/pdfresample/pdfresample/pkg/log"
	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/types"
)

// analyzer walks the object graph and tokenized content streams, one
// analysis pass per document, maintaining a per-image observation list
// and a global visited-subgraph set that guarantees termination on
// cyclic Form/Pattern references.
type analyzer struct {
	ctx          *model.Context
	imageIndex   map[types.ObjectID]ImageRecord
	observations map[types.ObjectID][]DisplayObservation
	visited      map[types.ObjectID]bool
}

// Analyze runs the graphics-state interpreter over every page of ctx,
// including annotation appearances, and returns the raw per-image
// observation lists. Callers reduce this with Reduce into
// ImageDisplayInfo; the analyzer itself never picks a "winning" size.
func Analyze(ctx *model.Context, index map[types.ObjectID]ImageRecord) map[types.ObjectID][]DisplayObservation {
	a := &analyzer{
		ctx:          ctx,
		imageIndex:   index,
		observations: map[types.ObjectID][]DisplayObservation{},
		visited:      map[types.ObjectID]bool{},
	}
	for _, page := range ctx.Pages() {
		a.scanPage(page)
	}
	return a.observations
}

func (a *analyzer) recordObservation(id types.ObjectID, sx, sy float64) {
	if sx <= 0 || sy <= 0 {
		return
	}
	a.observations[id] = append(a.observations[id], DisplayObservation{DisplayWidth: sx, DisplayHeight: sy})
}

// scanPage walks one page's content stream and annotation appearances.
func (a *analyzer) scanPage(page types.Dict) {
	chain := pageResourcesChain(a.ctx, page).withOwn(nil)
	content := a.pageContent(page)
	a.interpret(content, chain, []Matrix{Identity})
	a.scanAnnotations(page, chain)
}

// pageContent concatenates a page's Contents streams, decompressed, in
// order, separated by "\n" when Contents is an array.
func (a *analyzer) pageContent(page types.Dict) []byte {
	v, ok := page.Find("Contents")
	if !ok {
		return nil
	}

	var parts [][]byte
	resolved := a.ctx.Resolve(v)
	switch o := resolved.(type) {
	case types.StreamDict:
		parts = append(parts, a.decompress(o))
	case types.Array:
		for _, e := range o {
			sd, ok := a.ctx.ResolveStreamDict(e)
			if !ok {
				continue
			}
			parts = append(parts, a.decompress(sd))
		}
	}
	return bytes.Join(parts, []byte("\n"))
}

// decompress runs a stream's declared filter pipeline through the
// filter layer; an image codec filter (DCTDecode, JPXDecode)
// halts the pipeline and yields whatever was produced so far, which for
// a content stream is simply never hit in well-formed input.
func (a *analyzer) decompress(sd types.StreamDict) []byte {
	if len(sd.FilterPipeline) == 0 {
		return sd.Raw
	}
	names := make([]string, len(sd.FilterPipeline))
	for i, f := range sd.FilterPipeline {
		names[i] = f.Name
	}
	parmsOf := func(i int) map[string]int {
		f := sd.FilterPipeline[i]
		if f.DecodeParms == nil {
			return nil
		}
		out := map[string]int{}
		for k, v := range f.DecodeParms.Dict {
			if iv, ok := v.(types.Integer); ok {
				out[k] = int(iv)
			}
			if bv, ok := v.(types.Boolean); ok {
				if bv {
					out[k] = 1
				}
			}
		}
		return out
	}
	out, err := filter.DecodePipeline(names, parmsOf, sd.Raw)
	if err != nil {
		return sd.Raw
	}
	return out
}

// interpret runs the content-stream operator/operand loop over one
// content stream, with its own private CTM stack starting at
// ctmStack[0]. Before interpreting, it walks this scope's own
// Resources' Pattern dictionary once, recursing into every tiling
// pattern with the current (initial) top-of-stack CTM as parent; this
// captures images that appear only via pattern fills.
func (a *analyzer) interpret(content []byte, chain resourcesChain, ctmStack []Matrix) {
	if len(chain) > 0 {
		a.scanOwnTilingPatterns(chain[0], ctmStack[len(ctmStack)-1])
	}

	toks := tokenize(content)
	var operands []token

	for _, t := range toks {
		if t.kind != tokOperator {
			operands = append(operands, t)
			continue
		}

		switch t.text {
		case "q":
			top := ctmStack[len(ctmStack)-1]
			ctmStack = append(ctmStack, top)

		case "Q":
			if len(ctmStack) > 1 {
				ctmStack = ctmStack[:len(ctmStack)-1]
			}
			// Underflow (stack already at one element) is clamped, not an error.

		case "cm":
			if nums, ok := lastNNumbers(operands, 6); ok {
				top := ctmStack[len(ctmStack)-1]
				m := NewMatrix(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
				ctmStack[len(ctmStack)-1] = top.Concat(m)
			}

		case "Do":
			if name, ok := lastName(operands); ok {
				a.handleDo(name, chain, ctmStack[len(ctmStack)-1])
			}

		case "gs":
			if name, ok := lastName(operands); ok {
				a.handleGS(name, chain, ctmStack[len(ctmStack)-1])
			}
		}

		operands = operands[:0]
	}
}

func lastNNumbers(operands []token, k int) ([]float64, bool) {
	var nums []float64
	for _, o := range operands {
		if o.kind == tokNumber {
			nums = append(nums, o.num)
		}
	}
	if len(nums) < k {
		return nil, false
	}
	return nums[len(nums)-k:], true
}

func lastName(operands []token) (string, bool) {
	for i := len(operands) - 1; i >= 0; i-- {
		if operands[i].kind == tokName {
			return operands[i].text, true
		}
	}
	return "", false
}

// handleDo resolves a "/Name Do" operand in the XObject resource
// category and either records an image paint or recurses into a Form
// XObject.
func (a *analyzer) handleDo(name string, chain resourcesChain, ctm Matrix) {
	obj, ok := lookup(a.ctx, chain, "XObject", name)
	if !ok {
		return
	}
	ir, ok := obj.(types.IndirectRef)
	if !ok {
		return
	}
	id := ir.ID()
	sd, ok := a.ctx.ResolveStreamDict(ir)
	if !ok {
		return
	}

	st := sd.Subtype()
	if st == nil {
		return
	}

	switch *st {
	case "Image":
		if _, known := a.imageIndex[id]; known {
			a.recordObservation(id, ctm.ScaleX(), ctm.ScaleY())
		}
	case "Form":
		a.scanFormXObject(id, ctm, chain)
	}
}

// handleGS resolves a "/Name gs" operand in the ExtGState resource
// category; if it names a soft-mask group, that group's Form XObject is
// scanned with the current CTM as parent.
func (a *analyzer) handleGS(name string, chain resourcesChain, ctm Matrix) {
	obj, ok := lookup(a.ctx, chain, "ExtGState", name)
	if !ok {
		return
	}
	gsDict, ok := a.ctx.ResolveDict(obj)
	if !ok {
		return
	}
	smaskVal, ok := gsDict.Find("SMask")
	if !ok {
		return
	}
	smaskDict, ok := a.ctx.ResolveDict(smaskVal)
	if !ok {
		return
	}
	gVal, ok := smaskDict.Find("G")
	if !ok {
		return
	}
	ir, ok := gVal.(types.IndirectRef)
	if !ok {
		return
	}
	a.scanFormXObject(ir.ID(), ctm, chain)
}

// scanFormXObject recurses into a Form XObject or SMask form group.
func (a *analyzer) scanFormXObject(id types.ObjectID, parentCTM Matrix, callerChain resourcesChain) {
	if a.visited[id] {
		return
	}
	a.visited[id] = true

	sd, ok := a.ctx.Dereference(id)
	if !ok {
		return
	}
	stream, ok := sd.(types.StreamDict)
	if !ok {
		return
	}

	formMatrix := Identity
	if arr := stream.ArrayEntry("Matrix"); arr != nil && len(arr) == 6 {
		if nums, ok := numbersOf(arr); ok {
			formMatrix = NewMatrix(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
		}
	}
	childCTM := parentCTM.Concat(formMatrix)

	chain := callerChain.withOwn(own(a.ctx, stream.Dict))

	if log.AnalyzeEnabled() {
		log.Analyze.Printf("form %s: ctm=%s", id, childCTM)
	}

	a.interpret(a.decompress(stream), chain, []Matrix{childCTM})
}

// scanTilingPattern recurses into a tiling pattern (PatternType = 1).
func (a *analyzer) scanTilingPattern(id types.ObjectID, parentCTM Matrix, callerChain resourcesChain) {
	if a.visited[id] {
		return
	}
	a.visited[id] = true

	sd, ok := a.ctx.Dereference(id)
	if !ok {
		return
	}
	stream, ok := sd.(types.StreamDict)
	if !ok {
		return
	}

	patternMatrix := Identity
	if arr := stream.ArrayEntry("Matrix"); arr != nil && len(arr) == 6 {
		if nums, ok := numbersOf(arr); ok {
			patternMatrix = NewMatrix(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
		}
	}
	childCTM := parentCTM.Concat(patternMatrix)

	chain := callerChain.withOwn(own(a.ctx, stream.Dict))

	if log.AnalyzeEnabled() {
		log.Analyze.Printf("pattern %s: ctm=%s", id, childCTM)
	}

	a.interpret(a.decompress(stream), chain, []Matrix{childCTM})
}

// scanOwnTilingPatterns walks resources' own Pattern dictionary,
// recursing into every tiling pattern (PatternType = 1); shading
// patterns (PatternType = 2) are ignored. This is invoked once per
// call to interpret, not once per Do, so a pattern filling the same
// resource scope many times is only scanned once.
func (a *analyzer) scanOwnTilingPatterns(resources types.Dict, ctm Matrix) {
	pv, ok := resources.Find("Pattern")
	if !ok {
		return
	}
	pd, ok := a.ctx.ResolveDict(pv)
	if !ok {
		return
	}
	for _, v := range pd.Dict {
		ir, ok := v.(types.IndirectRef)
		if !ok {
			continue
		}
		sd, ok := a.ctx.ResolveStreamDict(ir)
		if !ok {
			continue
		}
		if pt := sd.IntEntry("PatternType"); pt == nil || *pt != 1 {
			continue
		}
		a.scanTilingPattern(ir.ID(), ctm, nil)
	}
}

// scanAnnotations scans every annotation's AP/N, AP/R, AP/D entry: a
// Form XObject reference, or a dict of appearance-state names to Form
// XObject references. Each is scanned with an identity parent CTM.
func (a *analyzer) scanAnnotations(page types.Dict, pageChain resourcesChain) {
	av, ok := page.Find("Annots")
	if !ok {
		return
	}
	annots, ok := a.ctx.ResolveArray(av)
	if !ok {
		return
	}
	for _, av := range annots {
		annot, ok := a.ctx.ResolveDict(av)
		if !ok {
			continue
		}
		apv, ok := annot.Find("AP")
		if !ok {
			continue
		}
		ap, ok := a.ctx.ResolveDict(apv)
		if !ok {
			continue
		}
		for _, sub := range []string{"N", "R", "D"} {
			sv, ok := ap.Find(sub)
			if !ok {
				continue
			}
			a.scanAppearanceEntry(sv, pageChain)
		}
	}
}

func (a *analyzer) scanAppearanceEntry(obj types.Object, pageChain resourcesChain) {
	if ir, ok := obj.(types.IndirectRef); ok {
		if sd, ok := a.ctx.ResolveStreamDict(ir); ok && sd.Subtype() != nil && *sd.Subtype() == "Form" {
			a.scanFormXObject(ir.ID(), Identity, pageChain)
			return
		}
	}
	// A dict of appearance-state names -> Form XObject references.
	if d, ok := a.ctx.ResolveDict(obj); ok {
		for _, v := range d.Dict {
			if ir, ok := v.(types.IndirectRef); ok {
				a.scanFormXObject(ir.ID(), Identity, pageChain)
			}
		}
	}
}

func numbersOf(arr types.Array) ([]float64, bool) {
	nums := make([]float64, len(arr))
	for i, o := range arr {
		switch v := o.(type) {
		case types.Integer:
			nums[i] = float64(v)
		case types.Float:
			nums[i] = float64(v)
		default:
			return nil, false
		}
	}
	return nums, true
}
