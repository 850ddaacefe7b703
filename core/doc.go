// Package core provides low-level VDA-FS parsing primitives and the raw
// entity model.
//
// A VDA-FS file is a sequence of 80-column records. Columns 1..72 carry data,
// columns 73..80 carry sequence numbers. Records starting with "$$" are
// comments. Each entity is introduced by a statement line
//
//	NAME = COMMAND / p1, p2, ...
//
// and continues on the following records for as long as its data ends with a
// comma. The parameters may also start on the record after a bare "/", and a
// record that fills column 72 may be cut inside a number whose remainder
// opens the next record. A HEADER statement declares a number of free-text records that
// follow it verbatim, and the file ends with an END statement.
//
// # Parameters
//
// The parameter stream of an entity is a sequence of [Param] values:
//
//   - [Int] - integer counts and orders
//   - [Real] - coordinates, coefficients and parameter values
//   - [Name] - references to other entities (e.g. CV57, SR85)
//   - [Text] - quoted text
//
// Numbers are parsed strictly by [ParseNumber]. Besides the usual forms it
// accepts the D exponent marker and the packed form without a marker
// ("0.123-04"). A malformed number is a [ParseError], never a silent zero.
//
// # Versions
//
// The header may declare "VDAFS VERSION : 1.0" or "2.0". In 1.0 files the
// CONS and FACE commands are not entity kinds and are kept as
// [KindUnknown] entities. Files without a declaration are read as 2.0.
//
// # Parsing
//
// [Parse] returns a [Model] holding every entity in file order, including
// entities of unknown kind. It fails on the first structural error; there is
// no partial result.
package core
