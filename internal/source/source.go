// Package source maps foreign source positions onto interned host file records.
package source

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"cimport/internal/model"
)

// File is one interned source file. Locations referring to the same path share
// the same *File, so pointer comparison is file identity.
type File struct {
	ID   uuid.UUID // Stable across runs for the same absolute path
	Path string    // Absolute path, empty for the "no file" record
}

func (f *File) String() string {
	if f == nil || f.Path == "" {
		return "<no file>"
	}
	return f.Path
}

// Loc is a position inside an interned file.
type Loc struct {
	File   *File
	Line   int
	Column int
	Offset int
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Range is a half-open source extent.
type Range struct {
	Start Loc
	End   Loc
}

// Equal reports whether r and o cover the same bytes of the same file.
func (r Range) Equal(o Range) bool {
	return r.Start.File == o.Start.File &&
		r.End.File == o.End.File &&
		r.Start.Offset == o.Start.Offset &&
		r.End.Offset == o.End.Offset
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%d:%d", r.Start, r.End.Line, r.End.Column)
}

// Registry interns one File per distinct path.
type Registry struct {
	files map[string]*File
	order []*File
	none  *File
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		files: make(map[string]*File),
		none:  &File{ID: uuid.Nil},
	}
}

// File returns the interned record for path. The empty path maps to a single
// shared "no file" record.
func (r *Registry) File(path string) *File {
	if path == "" {
		return r.none
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	if f, ok := r.files[abs]; ok {
		return f
	}
	f := &File{
		ID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)),
		Path: abs,
	}
	r.files[abs] = f
	r.order = append(r.order, f)
	return f
}

// Loc converts a foreign location.
func (r *Registry) Loc(l model.Location) Loc {
	return Loc{File: r.File(l.File), Line: l.Line, Column: l.Column, Offset: l.Offset}
}

// Range converts a foreign extent.
func (r *Registry) Range(m model.Range) *Range {
	return &Range{Start: r.Loc(m.Start), End: r.Loc(m.End)}
}

// Files returns the interned files in first-seen order.
func (r *Registry) Files() []*File {
	out := make([]*File, len(r.order))
	copy(out, r.order)
	return out
}
