package datatypes

import (
	"math"

	"github.com/aretw0/dataflow/pkg/domain"
)

// Point is a location in 3D space.
type Point struct {
	X, Y, Z float64
}

// BBox is an axis-aligned bounding box. The zero value is invalid (empty).
type BBox struct {
	Min, Max Point
	valid    bool
}

// Valid reports whether at least one point was added.
func (b BBox) Valid() bool { return b.valid }

// Extend grows the box to contain p.
func (b *BBox) Extend(p Point) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = Point{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)}
	b.Max = Point{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)}
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2, (b.Min.Z + b.Max.Z) / 2}
}

// Diagonal returns the extent along each axis.
func (b BBox) Diagonal() Point {
	return Point{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
}

// Field is a point-sampled mesh with optional per-node values.
type Field struct {
	base
	nodes  []Point
	values []float64
}

// NewField creates a Field. values may be nil.
func NewField(nodes []Point, values []float64) (*Field, error) {
	if values != nil && len(values) != len(nodes) {
		return nil, domain.NewExecutionError(domain.CategoryDimensionMismatch,
			"%d values for %d nodes", len(values), len(nodes))
	}
	f := &Field{base: base{id: newID()}, nodes: append([]Point(nil), nodes...)}
	if values != nil {
		f.values = append([]float64(nil), values...)
	}
	return f, nil
}

func (f *Field) TypeName() string { return domain.DatatypeField }

// NumNodes returns the number of mesh nodes.
func (f *Field) NumNodes() int { return len(f.nodes) }

// Nodes returns a copy of the mesh nodes.
func (f *Field) Nodes() []Point { return append([]Point(nil), f.nodes...) }

// BoundingBox returns the box around every node. Empty fields yield an invalid box.
func (f *Field) BoundingBox() BBox {
	var b BBox
	for _, p := range f.nodes {
		b.Extend(p)
	}
	return b
}
