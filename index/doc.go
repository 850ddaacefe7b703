// Package index provides name and kind lookup over a parsed VDA-FS model.
//
// [Build] indexes a [core.Model] in one pass. Names must be unique: a
// repeated name is a [DuplicateEntityError] rather than a silent overwrite,
// because CONS and FACE entities refer to each other by name.
//
//	idx, err := index.Build(model)
//	e, err := idx.Get("CV12")          // *core.ReferenceError if absent
//	curves := idx.Names(core.KindCurve) // file order
package index
