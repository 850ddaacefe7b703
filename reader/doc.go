// Package reader provides high-level VDA-FS file reading.
//
// This package ties the lower-level packages together: it decodes the file's
// character set, parses it with the core package, indexes the entities and
// binds a resolver to the index.
//
// # Opening VDA-FS Files
//
// Use [Open] to read a file:
//
//	r, err := reader.Open("part.vda")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The file is read completely and closed before Open returns, so a Reader
// needs no Close. Use [NewReader] to parse from any io.Reader.
//
// # Character Sets
//
// VDA-FS files predate UTF-8 and usually carry ISO 8859-1 text in their
// header. Input is decoded as ISO 8859-1 unless [WithEncoding] says
// otherwise.
//
// # File Information
//
//   - Version() - declared format version (1.0 or 2.0)
//   - Header() - header records
//   - NumEntities() - number of entities
//   - Model(), Index(), Resolver() - the underlying layers
package reader
