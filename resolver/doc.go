// Package resolver provides name-based access to the decoded entities of a
// VDA-FS model.
//
// VDA-FS entities refer to each other by name: a FACE names its SURF and the
// CONS of its loops, a CONS names its SURF and CURVE. The resolver looks up
// names through an [index.Index], decodes entities on demand and memoizes
// each decoded value for the lifetime of the resolver.
//
// # Basic Usage
//
//	res := resolver.New(idx)
//	face, err := res.Face("FA12")
//	crv, err := res.Curve("CV3")
//
// [Resolver.Decode] returns whichever decoded type matches the entity's
// kind; unsupported kinds come back as [Unknown].
//
// # Dependency Closure
//
// Exporters need every entity a FACE depends on:
//
//	names, err := res.DependencyClosure("FA12", "FA13")
//
// The walk follows references without decoding geometry. It detects
// circular references and stops at a configurable depth:
//
//	res := resolver.New(idx, resolver.WithMaxDepth(10))
//
// A Resolver belongs to one goroutine. Process files in parallel with one
// resolver each.
package resolver
