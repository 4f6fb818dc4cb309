package basic

import (
	"context"

	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/state"
)

// State keys.
const (
	KeyRows         = "Rows"
	KeyCols         = "Cols"
	KeyFill         = "Fill"
	KeyReceivedRows = "ReceivedRows"
	KeyReceivedCols = "ReceivedCols"
)

var (
	SendTestMatrixInfo    = domain.NewLookupInfo("SendTestMatrix", "Basic", "SCIRun")
	ReceiveTestMatrixInfo = domain.NewLookupInfo("ReceiveTestMatrix", "Basic", "SCIRun")

	MatrixOutputPort = domain.NewPortDescription("Output", domain.DatatypeMatrix, "blue")
	MatrixInputPort  = domain.NewPortDescription("Input", domain.DatatypeMatrix, "blue")
)

type testMatrixParams struct {
	Rows int      `mapstructure:"Rows"`
	Cols int      `mapstructure:"Cols"`
	Fill *float64 `mapstructure:"Fill"`
}

type sendTestMatrix struct{}

// NewSendTestMatrix builds a SendTestMatrix module. It sends a Rows×Cols
// matrix filled with "Fill", or with ones on the diagonal when Fill is unset.
func NewSendTestMatrix(c *module.Context) *module.Module {
	return module.New(c, SendTestMatrixInfo, sendTestMatrix{})
}

func (sendTestMatrix) SetStateDefaults(st ports.ModuleState) {
	st.SetValue(KeyRows, domain.IntValue(3))
	st.SetValue(KeyCols, domain.IntValue(3))
}

func (sendTestMatrix) Execute(_ context.Context, m *module.Module) error {
	var p testMatrixParams
	if err := state.Decode(m.State(), &p); err != nil {
		return domain.NewExecutionError(domain.CategoryInvalidState, "%v", err)
	}
	if p.Rows < 0 || p.Cols < 0 {
		return domain.NewExecutionError(domain.CategoryInvalidState, "negative size %dx%d", p.Rows, p.Cols)
	}

	data := make([]float64, p.Rows*p.Cols)
	for r := 0; r < p.Rows; r++ {
		for c := 0; c < p.Cols; c++ {
			switch {
			case p.Fill != nil:
				data[r*p.Cols+c] = *p.Fill
			case r == c:
				data[r*p.Cols+c] = 1
			}
		}
	}
	mat, err := datatypes.NewDenseMatrix(p.Rows, p.Cols, data)
	if err != nil {
		return err
	}
	return m.SendOutputHandle(0, mat)
}

type receiveTestMatrix struct{}

// NewReceiveTestMatrix builds a ReceiveTestMatrix module. It records the
// received matrix shape.
func NewReceiveTestMatrix(c *module.Context) *module.Module {
	return module.New(c, ReceiveTestMatrixInfo, receiveTestMatrix{})
}

func (receiveTestMatrix) Execute(_ context.Context, m *module.Module) error {
	mat, err := module.RequiredInput[*datatypes.DenseMatrix](m, 0)
	if err != nil {
		return err
	}
	st := m.State()
	st.SetValue(KeyReceivedRows, domain.IntValue(int64(mat.Rows())))
	st.SetValue(KeyReceivedCols, domain.IntValue(int64(mat.Cols())))
	return nil
}
