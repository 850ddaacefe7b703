// Package export writes VDA-FS data derived from a parsed file.
//
// Three outputs are supported:
//
//   - [WriteFaceFile] re-exports FACEs with their dependency closure as a
//     minimal VDA-FS file that parses back to the same entities.
//   - [WriteLoopCSV] writes one mapped boundary loop as "s,t" rows;
//     [ReadLoopCSV] reads such files back for plotting.
//   - [WriteLoopsCBOR] dumps every loop of a FACE as one canonical CBOR item.
package export
