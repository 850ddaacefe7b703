package index

import (
	"fmt"

	"github.com/tsawler/vdafs/core"
)

// DuplicateEntityError reports a name declared by more than one statement.
// References are bound by name, so a repeated name would make every
// reference to it ambiguous.
type DuplicateEntityError struct {
	Name      string
	FirstLine int
	Line      int
}

func (e *DuplicateEntityError) Error() string {
	return fmt.Sprintf("duplicate entity name %q at line %d (first declared at line %d)", e.Name, e.Line, e.FirstLine)
}

// Index maps entity names and kinds to the entities of one Model.
// It is read-only after Build and must not outlive its Model.
type Index struct {
	model  *core.Model
	byName map[string]*core.Entity
	byKind map[core.Kind][]string
	kinds  []core.Kind // kinds in order of first appearance
}

// Build indexes every entity of m in a single pass
func Build(m *core.Model) (*Index, error) {
	idx := &Index{
		model:  m,
		byName: make(map[string]*core.Entity, len(m.Entities)),
		byKind: make(map[core.Kind][]string),
	}

	for _, e := range m.Entities {
		if prev, ok := idx.byName[e.Name]; ok {
			return nil, &DuplicateEntityError{Name: e.Name, FirstLine: prev.Line, Line: e.Line}
		}
		idx.byName[e.Name] = e

		names, seen := idx.byKind[e.Kind]
		if !seen {
			idx.kinds = append(idx.kinds, e.Kind)
		}
		idx.byKind[e.Kind] = append(names, e.Name)
	}

	return idx, nil
}

// Model returns the indexed model
func (x *Index) Model() *core.Model {
	return x.model
}

// Len returns the number of indexed names
func (x *Index) Len() int {
	return len(x.byName)
}

// Lookup returns the entity with the given name
func (x *Index) Lookup(name string) (*core.Entity, bool) {
	e, ok := x.byName[name]
	return e, ok
}

// Get returns the entity with the given name, or a *core.ReferenceError
func (x *Index) Get(name string) (*core.Entity, error) {
	e, ok := x.byName[name]
	if !ok {
		return nil, &core.ReferenceError{Name: name}
	}
	return e, nil
}

// Names returns the names of all entities of a kind in file order.
// The returned slice must not be modified.
func (x *Index) Names(kind core.Kind) []string {
	return x.byKind[kind]
}

// Kinds returns the kinds present in the model in order of first appearance
func (x *Index) Kinds() []core.Kind {
	return append([]core.Kind(nil), x.kinds...)
}

// Commands groups entity names by their command word in order of first
// appearance. Unlike Names it tells unknown commands apart (TMAT, GROUP, ...).
func (x *Index) Commands() ([]string, map[string][]string) {
	var order []string
	groups := make(map[string][]string)
	for _, e := range x.model.Entities {
		if _, ok := groups[e.Command]; !ok {
			order = append(order, e.Command)
		}
		groups[e.Command] = append(groups[e.Command], e.Name)
	}
	return order, groups
}
