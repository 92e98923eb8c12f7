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
	"github.com/pdfresample/pdfresample/pkg/model"
	"github.com/pdfresample/pdfresample/pkg/types"
)

// resourcesChain is an ordered list of Resources dicts to search; the
// first that contains a requested key wins. index 0 is always the
// current form/pattern/page's own Resources when present.
type resourcesChain []types.Dict

// pageResourcesChain builds the lookup order for a page: its own
// Resources, then every ancestor page-tree node's Resources walking
// /Parent to the root, so the root page tree's Resources is
// consulted last.
func pageResourcesChain(ctx *model.Context, page types.Dict) resourcesChain {
	var chain resourcesChain
	if r, ok := page.Find("Resources"); ok {
		if rd, ok := ctx.ResolveDict(r); ok {
			chain = append(chain, rd)
		}
	}

	// Depth-capped rather than visited-set cycle guard: a page-tree
	// /Parent chain is not addressed by ObjectID here (Dict values carry
	// no identity), so a fixed bound stands in for cycle detection on
	// this narrow, append-only walk.
	cur := page
	for depth := 0; depth < 256; depth++ {
		pv, ok := cur.Find("Parent")
		if !ok {
			break
		}
		parent, ok := ctx.ResolveDict(pv)
		if !ok {
			break
		}
		if r, ok := parent.Find("Resources"); ok {
			if rd, ok := ctx.ResolveDict(r); ok {
				chain = append(chain, rd)
			}
		}
		cur = parent
	}
	return chain
}

// withOwn prepends ownResources (a Form/Pattern's own Resources, when
// present) ahead of the caller's chain, which is consulted only on
// absence.
func (c resourcesChain) withOwn(own *types.Dict) resourcesChain {
	if own == nil {
		return c
	}
	out := make(resourcesChain, 0, len(c)+1)
	out = append(out, *own)
	out = append(out, c...)
	return out
}

// lookup resolves name within the named sub-dictionary (XObject,
// ExtGState, Pattern, ...) of the first chain entry that has it.
func lookup(ctx *model.Context, chain resourcesChain, category, name string) (types.Object, bool) {
	for _, r := range chain {
		cv, ok := r.Find(category)
		if !ok {
			continue
		}
		cd, ok := ctx.ResolveDict(cv)
		if !ok {
			continue
		}
		if v, found := cd.Find(name); found {
			return v, true
		}
	}
	return nil, false
}

// own extracts a dict's own Resources entry, if any, for use as a chain
// head via withOwn.
func own(ctx *model.Context, d types.Dict) *types.Dict {
	r, ok := d.Find("Resources")
	if !ok {
		return nil
	}
	rd, ok := ctx.ResolveDict(r)
	if !ok {
		return nil
	}
	return &rd
}
