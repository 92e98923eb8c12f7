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

import "github.com/pkg/errors"

// Kind classifies a call-failing error. Per-image recoverable
// conditions are never surfaced as errors; they contribute to
// Result.SkippedImages instead.
type Kind int

const (
	// InvalidQuality: quality outside [1,100].
	InvalidQuality Kind = iota
	// LoadError: the underlying PDF parse failed.
	LoadError
	// SaveError: serialization failed.
	SaveError
	// ProcessingError: unexpected failure inside the transformer.
	ProcessingError
)

func (k Kind) String() string {
	switch k {
	case InvalidQuality:
		return "InvalidQuality"
	case LoadError:
		return "LoadError"
	case SaveError:
		return "SaveError"
	case ProcessingError:
		return "ProcessingError"
	default:
		return "Unknown"
	}
}

// Error wraps a call-failing error with its Kind, so callers across the
// api/cmd/bridge boundary can branch on error identity without parsing
// message text.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped cause to errors.Is/errors.As and to
// github.com/pkg/errors.Cause.
func (e *Error) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error { return e.Err }

func newError(k Kind, err error) *Error {
	return &Error{Kind: k, Err: err}
}

func newErrorf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Err: errors.Errorf(format, args...)}
}

// KindOf reports the Kind of err if it (or something it wraps) is an
// *Error, and ok=false otherwise. Walks both this package's Unwrap chain
// and github.com/pkg/errors' causer chain, since Wrap/Wrapf produce
// causers rather than standard-library wrappers.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Cause() error }:
			err = u.Cause()
		default:
			return 0, false
		}
	}
	return 0, false
}
