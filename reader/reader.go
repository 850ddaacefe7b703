package reader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/tsawler/vdafs/core"
	"github.com/tsawler/vdafs/index"
	"github.com/tsawler/vdafs/model"
	"github.com/tsawler/vdafs/resolver"
)

// Reader holds one parsed VDA-FS file: its model, index and resolver
type Reader struct {
	name     string
	fileSize int64
	model    *core.Model
	index    *index.Index
	resolver *resolver.Resolver
}

// Option configures reading
type Option func(*options)

type options struct {
	encoding encoding.Encoding
	param    model.Parameterization
	maxDepth int
}

// WithEncoding sets the character encoding of the input
// (default: charmap.ISO8859_1). Pass encoding.Nop to read bytes unchanged.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) {
		o.encoding = enc
	}
}

// WithParameterization sets the local parameter convention of the decoded
// geometry (default: model.Normalized)
func WithParameterization(p model.Parameterization) Option {
	return func(o *options) {
		o.param = p
	}
}

// WithMaxDepth sets the reference depth limit of dependency closures
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// NewReader parses VDA-FS text from r. name is used in error messages only.
func NewReader(r io.Reader, name string, opts ...Option) (*Reader, error) {
	o := options{encoding: charmap.ISO8859_1, maxDepth: 100}
	for _, opt := range opts {
		opt(&o)
	}

	src := r
	if o.encoding != nil {
		src = transform.NewReader(r, o.encoding.NewDecoder())
	}

	m, err := core.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	idx, err := index.Build(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &Reader{
		name:  name,
		model: m,
		index: idx,
		resolver: resolver.New(idx,
			resolver.WithParameterization(o.param),
			resolver.WithMaxDepth(o.maxDepth)),
	}, nil
}

// Open reads and parses a VDA-FS file. The file is closed before Open
// returns, on success and on failure alike.
func Open(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	r, err := NewReader(bytes.NewReader(data), filepath.Base(filename), opts...)
	if err != nil {
		return nil, err
	}
	r.fileSize = int64(len(data))
	return r, nil
}

// Name returns the name the reader was created with
func (r *Reader) Name() string {
	return r.name
}

// FileSize returns the size of the file in bytes, or 0 when the reader was
// not created by Open
func (r *Reader) FileSize() int64 {
	return r.fileSize
}

// Version returns the format version declared by the file
func (r *Reader) Version() core.Version {
	return r.model.Version
}

// Header returns the file header, or nil when the file has none
func (r *Reader) Header() *core.Header {
	return r.model.Header
}

// Model returns the parsed entity table
func (r *Reader) Model() *core.Model {
	return r.model
}

// Index returns the name and kind index
func (r *Reader) Index() *index.Index {
	return r.index
}

// Resolver returns the resolver bound to the index
func (r *Reader) Resolver() *resolver.Resolver {
	return r.resolver
}

// NumEntities returns the number of entities in the file
func (r *Reader) NumEntities() int {
	return r.model.Len()
}
