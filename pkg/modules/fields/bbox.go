package fields

import (
	"context"
	"strconv"

	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/state"
)

// Cleared is the display value of an input attribute not computed yet.
const Cleared = "---"

// State keys.
const (
	RestrictX = "RestrictX"
	RestrictY = "RestrictY"
	RestrictZ = "RestrictZ"
	RestrictR = "RestrictR"
	RestrictD = "RestrictD"
	RestrictI = "RestrictI"

	InputCenterX = "InputCenterX"
	InputCenterY = "InputCenterY"
	InputCenterZ = "InputCenterZ"
	InputSizeX   = "InputSizeX"
	InputSizeY   = "InputSizeY"
	InputSizeZ   = "InputSizeZ"
)

// Port indexes.
const (
	InputField = 0

	OutputField          = 0
	TransformationWidget = 1
	TransformationMatrix = 2
)

var (
	EditMeshBoundingBoxInfo = domain.NewLookupInfo("EditMeshBoundingBox", "ChangeMesh", "SCIRun")

	InputFieldPort           = domain.NewPortDescription("InputField", domain.DatatypeField, "yellow")
	OutputFieldPort          = domain.NewPortDescription("OutputField", domain.DatatypeField, "yellow")
	TransformationWidgetPort = domain.NewPortDescription("Transformation_Widget", domain.DatatypeGeom, "magenta")
	TransformationMatrixPort = domain.NewPortDescription("Transformation_Matrix", domain.DatatypeMatrix, "blue")
)

type restrictions struct {
	X bool `mapstructure:"RestrictX"`
	Y bool `mapstructure:"RestrictY"`
	Z bool `mapstructure:"RestrictZ"`
	R bool `mapstructure:"RestrictR"`
	D bool `mapstructure:"RestrictD"`
	I bool `mapstructure:"RestrictI"`
}

type editMeshBoundingBox struct{}

// NewEditMeshBoundingBox builds the bounding-box editor. Each cycle it
// reports the center and size of the input field's bounding box.
func NewEditMeshBoundingBox(c *module.Context) *module.Module {
	return module.New(c, EditMeshBoundingBoxInfo, editMeshBoundingBox{})
}

func (editMeshBoundingBox) SetStateDefaults(st ports.ModuleState) {
	clearValues(st)
	for _, k := range []string{RestrictX, RestrictY, RestrictZ, RestrictR, RestrictD, RestrictI} {
		st.SetValue(k, domain.BoolValue(false))
	}
}

func (editMeshBoundingBox) Execute(_ context.Context, m *module.Module) error {
	st := m.State()
	clearValues(st)

	var r restrictions
	if err := state.Decode(st, &r); err != nil {
		return domain.NewExecutionError(domain.CategoryInvalidState, "%v", err)
	}
	if r.X || r.Y || r.Z || r.R || r.D || r.I {
		m.Status("Box widget restricted", "x", r.X, "y", r.Y, "z", r.Z, "r", r.R, "d", r.D, "i", r.I)
	}

	field, err := module.RequiredInput[*datatypes.Field](m, InputField)
	if err != nil {
		return err
	}

	bbox := field.BoundingBox()
	if !bbox.Valid() {
		m.Warning("Input field is empty -- using unit cube.")
		bbox.Extend(datatypes.Point{X: 0, Y: 0, Z: 0})
		bbox.Extend(datatypes.Point{X: 1, Y: 1, Z: 1})
	}
	center, size := bbox.Center(), bbox.Diagonal()

	st.SetValue(InputCenterX, formatCoord(center.X))
	st.SetValue(InputCenterY, formatCoord(center.Y))
	st.SetValue(InputCenterZ, formatCoord(center.Z))
	st.SetValue(InputSizeX, formatCoord(size.X))
	st.SetValue(InputSizeY, formatCoord(size.Y))
	st.SetValue(InputSizeZ, formatCoord(size.Z))

	if err := m.SendOutputHandle(OutputField, field); err != nil {
		return err
	}
	transform, err := unitCubeTransform(bbox)
	if err != nil {
		return err
	}
	return m.SendOutputHandle(TransformationMatrix, transform)
}

func clearValues(st ports.ModuleState) {
	cleared := domain.StringValue(Cleared)
	for _, k := range []string{InputCenterX, InputCenterY, InputCenterZ, InputSizeX, InputSizeY, InputSizeZ} {
		st.SetValue(k, cleared)
	}
}

func formatCoord(v float64) domain.Value {
	return domain.StringValue(strconv.FormatFloat(v, 'g', -1, 64))
}

// unitCubeTransform returns the 4x4 affine matrix mapping the unit cube onto b.
func unitCubeTransform(b datatypes.BBox) (*datatypes.DenseMatrix, error) {
	d := b.Diagonal()
	return datatypes.NewDenseMatrix(4, 4, []float64{
		d.X, 0, 0, b.Min.X,
		0, d.Y, 0, b.Min.Y,
		0, 0, d.Z, b.Min.Z,
		0, 0, 0, 1,
	})
}
