package domain

// Direction tells whether a port receives or sends data.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Common datatype tags used by the built-in modules.
const (
	DatatypeAny    = "Datatype" // Wildcard accepted by the connection layer.
	DatatypeMatrix = "Matrix"
	DatatypeScalar = "Scalar"
	DatatypeString = "String"
	DatatypeField  = "Field"
	DatatypeGeom   = "GeometryObject"
)

// PortDescription holds the construction parameters of a port.
// The fields are descriptive metadata: the execution core never checks
// datatype compatibility, the connection layer does.
type PortDescription struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Datatype string `json:"datatype" yaml:"datatype" mapstructure:"datatype" validate:"required"`
	Color    string `json:"color" yaml:"color" mapstructure:"color" validate:"required"`
}

// NewPortDescription is shorthand for a PortDescription literal.
func NewPortDescription(name, datatype, color string) PortDescription {
	return PortDescription{Name: name, Datatype: datatype, Color: color}
}
