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

// Package model holds the PDF object-graph adapter: a Context loaded by
// Parse and written back to bytes by Serialize, plus the Configuration
// ambient settings.
package model

import (
	"github.com/pdfresample/pdfresample/pkg/types"
)

// Context is the in-memory PDF object graph: every indirect object
// addressed by its ObjectID, plus the trailer and a handle on the
// document catalog. It is borrowed read-only during analysis and
// mutated exclusively during transformation (two non-overlapping
// phases, never interleaved).
type Context struct {
	Objects map[types.ObjectID]types.Object
	Trailer types.Dict

	maxObjNumber int
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{Objects: map[types.ObjectID]types.Object{}}
}

// Resolve dereferences obj if it is an IndirectRef, following at most one
// level of indirection (PDF does not permit indirect references to
// indirect references). Returns the object unchanged if it isn't a
// reference, or nil if the reference is dangling.
func (ctx *Context) Resolve(obj types.Object) types.Object {
	ir, ok := obj.(types.IndirectRef)
	if !ok {
		return obj
	}
	return ctx.Objects[ir.ID()]
}

// Dereference resolves an ObjectID to its object, if any.
func (ctx *Context) Dereference(id types.ObjectID) (types.Object, bool) {
	o, ok := ctx.Objects[id]
	return o, ok
}

// ResolveDict resolves obj (direct or indirect) to a Dict, or ok=false.
func (ctx *Context) ResolveDict(obj types.Object) (types.Dict, bool) {
	resolved := ctx.Resolve(obj)
	switch o := resolved.(type) {
	case types.Dict:
		return o, true
	case types.StreamDict:
		return o.Dict, true
	}
	return types.Dict{}, false
}

// ResolveStreamDict resolves obj (direct or indirect) to a StreamDict, or ok=false.
func (ctx *Context) ResolveStreamDict(obj types.Object) (types.StreamDict, bool) {
	resolved := ctx.Resolve(obj)
	sd, ok := resolved.(types.StreamDict)
	return sd, ok
}

// ResolveArray resolves obj (direct or indirect) to an Array, or ok=false.
func (ctx *Context) ResolveArray(obj types.Object) (types.Array, bool) {
	resolved := ctx.Resolve(obj)
	a, ok := resolved.(types.Array)
	return a, ok
}

// Catalog returns the document catalog dict referenced by the trailer's /Root.
func (ctx *Context) Catalog() (types.Dict, bool) {
	root, found := ctx.Trailer.Find("Root")
	if !found {
		return types.Dict{}, false
	}
	return ctx.ResolveDict(root)
}

// AddObject registers a new indirect object with a fresh object number
// and returns the IndirectRef addressing it, for the transformer to wire
// into an SMask entry etc.
func (ctx *Context) AddObject(obj types.Object) types.IndirectRef {
	ctx.maxObjNumber++
	id := types.ObjectID{Number: types.ObjectNumber(ctx.maxObjNumber), Generation: 0}
	ctx.Objects[id] = obj
	return types.IndirectRef{ObjectNumber: types.Integer(id.Number), GenerationNumber: types.Integer(id.Generation)}
}

// Replace overwrites the object at id in place, used by the image
// transformer to swap in a resampled image stream.
func (ctx *Context) Replace(id types.ObjectID, obj types.Object) {
	ctx.Objects[id] = obj
}

// MaxObjectNumber returns the highest object number currently assigned.
func (ctx *Context) MaxObjectNumber() int {
	return ctx.maxObjNumber
}

// setMaxObjectNumber is used by the loader while populating the graph from
// parsed "N G obj" headers, so that subsequently AddObject-ed objects
// don't collide with numbers already present in the source file.
func (ctx *Context) setMaxObjectNumber(n int) {
	if n > ctx.maxObjNumber {
		ctx.maxObjNumber = n
	}
}

// Pages returns every page dict in document order, by walking the page
// tree rooted at the catalog's /Pages entry. Page tree /Kids may mix
// intermediate Pages nodes and leaf Page nodes; a node with a /Kids
// array is walked as an intermediate node and one without is taken as
// a page. /Type is not consulted.
func (ctx *Context) Pages() []types.Dict {
	catalog, ok := ctx.Catalog()
	if !ok {
		return nil
	}
	root, found := catalog.Find("Pages")
	if !found {
		return nil
	}
	rootDict, ok := ctx.ResolveDict(root)
	if !ok {
		return nil
	}

	var pages []types.Dict
	visited := map[types.ObjectID]bool{}
	var walk func(d types.Dict, ref *types.IndirectRef)
	walk = func(d types.Dict, ref *types.IndirectRef) {
		if ref != nil {
			id := ref.ID()
			if visited[id] {
				return
			}
			visited[id] = true
		}
		kids := d.ArrayEntry("Kids")
		if kids == nil {
			pages = append(pages, d)
			return
		}
		for _, k := range kids {
			var kidRef *types.IndirectRef
			if ir, ok := k.(types.IndirectRef); ok {
				r := ir
				kidRef = &r
			}
			kidDict, ok := ctx.ResolveDict(k)
			if !ok {
				continue
			}
			walk(kidDict, kidRef)
		}
	}
	walk(rootDict, nil)
	return pages
}
