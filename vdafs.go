// Package vdafs provides a fluent API for reading VDA-FS files and evaluating
// the geometry they describe.
//
// Basic usage:
//
//	loop, err := vdafs.Open("part.vda").Loop("FA12", 0)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	wire, err := vdafs.Open("part.vda").
//	    Parameterization(model.Shifted).
//	    IsoLines(20).
//	    Wireframe("SR3")
//
// Checking a file:
//
//	warnings, err := vdafs.Open("part.vda").Check()
//	if len(warnings) > 0 {
//	    log.Println(vdafs.FormatWarnings(warnings))
//	}
//
// For advanced use cases, the lower-level reader and resolver packages are
// also available.
package vdafs

import (
	"github.com/tsawler/vdafs/reader"
)

// Open returns a Query over a VDA-FS file. The file is read on the first
// terminal operation.
//
// Example:
//
//	names, err := vdafs.Open("part.vda").Names(core.KindFace)
func Open(filename string) *Query {
	return &Query{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates a Query over an already parsed file. The reader's own
// parameterization and depth limit apply; the matching Query options are
// ignored.
//
// Example:
//
//	r, err := reader.Open("part.vda")
//	if err != nil {
//	    // handle error
//	}
//	face, err := vdafs.FromReader(r).Face("FA1")
func FromReader(r *reader.Reader) *Query {
	return &Query{
		reader:   r,
		external: true,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	faces := vdafs.Must(vdafs.Open("part.vda").Names(core.KindFace))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustValue is a helper that wraps a call to Loops() and panics if the
// error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	loops := vdafs.MustValue(vdafs.Open("part.vda").Loops("FA1"))
func MustValue[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
