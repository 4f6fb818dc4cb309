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
	KeyValue         = "Value"
	KeyReceivedValue = "ReceivedValue"
)

var (
	SendScalarInfo    = domain.NewLookupInfo("SendScalar", "Basic", "SCIRun")
	ReceiveScalarInfo = domain.NewLookupInfo("ReceiveScalar", "Basic", "SCIRun")

	ScalarOutputPort = domain.NewPortDescription("Output", domain.DatatypeScalar, "cyan")
	ScalarInputPort  = domain.NewPortDescription("Input", domain.DatatypeScalar, "cyan")
)

type sendScalar struct{}

// NewSendScalar builds a SendScalar module. It sends the "Value" parameter.
func NewSendScalar(c *module.Context) *module.Module {
	return module.New(c, SendScalarInfo, sendScalar{})
}

func (sendScalar) SetStateDefaults(st ports.ModuleState) {
	st.SetValue(KeyValue, domain.FloatValue(0))
}

func (sendScalar) Execute(_ context.Context, m *module.Module) error {
	var params struct {
		Value float64 `mapstructure:"Value"`
	}
	if err := state.Decode(m.State(), &params); err != nil {
		return domain.NewExecutionError(domain.CategoryInvalidState, "%v", err)
	}
	return m.SendOutputHandle(0, datatypes.NewScalar(params.Value))
}

type receiveScalar struct{}

// NewReceiveScalar builds a ReceiveScalar module. It records the received
// number under "ReceivedValue".
func NewReceiveScalar(c *module.Context) *module.Module {
	return module.New(c, ReceiveScalarInfo, receiveScalar{})
}

func (receiveScalar) Execute(_ context.Context, m *module.Module) error {
	s, err := module.RequiredInput[*datatypes.Scalar](m, 0)
	if err != nil {
		return err
	}
	m.State().SetValue(KeyReceivedValue, domain.FloatValue(s.Value()))
	m.Status("Received scalar", "value", s.Value())
	return nil
}
