package linalg

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
	KeyOperation = "Operation"
	KeyScalar    = "Scalar"
)

// Unary operations.
const (
	OpNegate         = "negate"
	OpTranspose      = "transpose"
	OpScalarMultiply = "scalar_multiply"
)

// Binary operations.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
)

var (
	UnaryInfo  = domain.NewLookupInfo("EvaluateLinearAlgebraUnary", "Math", "SCIRun")
	BinaryInfo = domain.NewLookupInfo("EvaluateLinearAlgebraBinary", "Math", "SCIRun")

	InputPort    = domain.NewPortDescription("Input", domain.DatatypeMatrix, "blue")
	LHSInputPort = domain.NewPortDescription("InputLHS", domain.DatatypeMatrix, "blue")
	RHSInputPort = domain.NewPortDescription("InputRHS", domain.DatatypeMatrix, "blue")
	ResultPort   = domain.NewPortDescription("Result", domain.DatatypeMatrix, "blue")
)

type unaryParams struct {
	Operation string  `mapstructure:"Operation"`
	Scalar    float64 `mapstructure:"Scalar"`
}

// unary caches its last result: outputs are reset every cycle, so a
// skipped cycle resends it.
type unary struct {
	last *datatypes.DenseMatrix
}

// NewEvaluateLinearAlgebraUnary builds the unary evaluator.
func NewEvaluateLinearAlgebraUnary(c *module.Context) *module.Module {
	return module.New(c, UnaryInfo, &unary{})
}

func (u *unary) SetStateDefaults(st ports.ModuleState) {
	st.SetValue(KeyOperation, domain.StringValue(OpNegate))
	st.SetValue(KeyScalar, domain.FloatValue(1))
}

func (u *unary) Execute(_ context.Context, m *module.Module) error {
	in, err := module.RequiredInput[*datatypes.DenseMatrix](m, 0)
	if err != nil {
		return err
	}
	if !m.NeedToExecute(KeyOperation, KeyScalar) && u.last != nil {
		return m.SendOutputHandle(0, u.last)
	}

	var p unaryParams
	if err := state.Decode(m.State(), &p); err != nil {
		return domain.NewExecutionError(domain.CategoryInvalidState, "%v", err)
	}

	var out *datatypes.DenseMatrix
	switch p.Operation {
	case OpNegate:
		out = in.Negate()
	case OpTranspose:
		out = in.Transpose()
	case OpScalarMultiply:
		out = in.Scale(p.Scalar)
	default:
		return domain.NewExecutionError(domain.CategoryInvalidState, "unknown unary operation %q", p.Operation)
	}
	u.last = out
	return m.SendOutputHandle(0, out)
}

type binary struct {
	last *datatypes.DenseMatrix
}

// NewEvaluateLinearAlgebraBinary builds the binary evaluator.
func NewEvaluateLinearAlgebraBinary(c *module.Context) *module.Module {
	return module.New(c, BinaryInfo, &binary{})
}

func (b *binary) SetStateDefaults(st ports.ModuleState) {
	st.SetValue(KeyOperation, domain.StringValue(OpAdd))
}

func (b *binary) Execute(_ context.Context, m *module.Module) error {
	lhs, err := module.RequiredInput[*datatypes.DenseMatrix](m, 0)
	if err != nil {
		return err
	}
	rhs, err := module.RequiredInput[*datatypes.DenseMatrix](m, 1)
	if err != nil {
		return err
	}
	if !m.NeedToExecute(KeyOperation) && b.last != nil {
		return m.SendOutputHandle(0, b.last)
	}

	op, _ := m.State().Value(KeyOperation)
	var out *datatypes.DenseMatrix
	switch op.String() {
	case OpAdd:
		out, err = lhs.Add(rhs)
	case OpSubtract:
		out, err = lhs.Subtract(rhs)
	case OpMultiply:
		out, err = lhs.Multiply(rhs)
	default:
		return domain.NewExecutionError(domain.CategoryInvalidState, "unknown binary operation %q", op.String())
	}
	if err != nil {
		return err
	}
	b.last = out
	return m.SendOutputHandle(0, out)
}
