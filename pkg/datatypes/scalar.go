package datatypes

import "github.com/aretw0/dataflow/pkg/domain"

// Scalar holds a single float64.
type Scalar struct {
	base
	value float64
}

// NewScalar creates a Scalar handle.
func NewScalar(v float64) *Scalar {
	return &Scalar{base: base{id: newID()}, value: v}
}

func (s *Scalar) TypeName() string { return domain.DatatypeScalar }

// Value returns the wrapped number.
func (s *Scalar) Value() float64 { return s.value }

// String holds text.
type String struct {
	base
	value string
}

// NewString creates a String handle.
func NewString(v string) *String {
	return &String{base: base{id: newID()}, value: v}
}

func (s *String) TypeName() string { return domain.DatatypeString }

// Value returns the wrapped text.
func (s *String) Value() string { return s.value }
