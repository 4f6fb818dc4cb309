package factory_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory(t *testing.T, opts ...factory.Option) *factory.Factory {
	t.Helper()
	c := module.NewContext(
		module.WithLogger(logging.NewNop()),
		module.WithSinkMaker(memory.NewSink),
		module.WithSourceMaker(memory.NewSource),
		module.WithStateFactory(state.Factory{}),
	)
	return factory.New(c, opts...)
}

func TestLookupDescription_SendScalar(t *testing.T) {
	f := newFactory(t)
	desc := f.LookupDescription(domain.LookupInfo{ModuleName: "SendScalar"})

	assert.Equal(t, []domain.PortDescription{{Name: "Output", Datatype: "Scalar", Color: "cyan"}}, desc.OutputPorts)
	assert.Empty(t, desc.InputPorts)
	assert.True(t, desc.HasMaker())
}

func TestLookupDescription_Unknown(t *testing.T) {
	var logs bytes.Buffer
	f := newFactory(t, factory.WithLogger(logging.NewWithWriter(&logs, slog.LevelInfo)))

	desc := f.LookupDescription(domain.LookupInfo{ModuleName: "NoSuchModule"})
	assert.Empty(t, desc.InputPorts)
	assert.Empty(t, desc.OutputPorts)
	assert.False(t, desc.HasMaker())
	assert.Equal(t, "NoSuchModule", desc.Info.ModuleName)
	assert.Contains(t, logs.String(), "module=NoSuchModule")
}

func TestLookupDescription_ExactNameOnly(t *testing.T) {
	f := newFactory(t)
	for _, name := range []string{"MySendScalar", "SendScalar2", "sendscalar", "ComputeSVDLegacy"} {
		desc := f.LookupDescription(domain.LookupInfo{ModuleName: name})
		assert.False(t, desc.HasMaker(), name)
		assert.Empty(t, desc.OutputPorts, name)
	}
}

func TestLookupDescription_ReturnsCopies(t *testing.T) {
	f := newFactory(t)
	desc := f.LookupDescription(domain.LookupInfo{ModuleName: "ComputeSVD"})
	desc.OutputPorts[0].Name = "mutated"

	again := f.LookupDescription(domain.LookupInfo{ModuleName: "ComputeSVD"})
	assert.Equal(t, "U", again.OutputPorts[0].Name)
}

func TestBuiltinTable(t *testing.T) {
	f := newFactory(t)
	cases := []struct {
		name     string
		inputs   []string
		outputs  []string
		hasMaker bool
	}{
		{"ComputeSVD", []string{"Input"}, []string{"U", "S", "V"}, false},
		{"ReadMatrix", []string{"Input1"}, []string{"Output1", "Output2"}, false},
		{"WriteMatrix", []string{"Input1", "Input2"}, nil, false},
		{"SendScalar", nil, []string{"Output"}, true},
		{"ReceiveScalar", []string{"Input"}, nil, true},
		{"SendTestMatrix", nil, []string{"Output"}, true},
		{"ReceiveTestMatrix", []string{"Input"}, nil, true},
		{"ReportMatrixInfo", []string{"Input"}, nil, true},
		{"EvaluateLinearAlgebraUnary", []string{"Input"}, []string{"Result"}, true},
		{"EvaluateLinearAlgebraBinary", []string{"InputLHS", "InputRHS"}, []string{"Result"}, true},
		{"EditMeshBoundingBox", []string{"InputField"}, []string{"OutputField", "Transformation_Widget", "Transformation_Matrix"}, true},
	}

	var names []string
	for _, tc := range cases {
		names = append(names, tc.name)
		t.Run(tc.name, func(t *testing.T) {
			m, err := f.CreateByName(tc.name)
			require.NoError(t, err)
			defer m.Close()

			require.Equal(t, len(tc.inputs), m.NumInputPorts())
			require.Equal(t, len(tc.outputs), m.NumOutputPorts())
			for i, want := range tc.inputs {
				assert.Equal(t, want, m.InputPort(i).Name())
				assert.Equal(t, i, m.InputPort(i).Index())
			}
			for i, want := range tc.outputs {
				assert.Equal(t, want, m.OutputPort(i).Name())
			}
			assert.Equal(t, tc.name, m.Name())
			assert.Equal(t, tc.hasMaker, f.LookupDescription(domain.LookupInfo{ModuleName: tc.name}).HasMaker())
		})
	}
	assert.ElementsMatch(t, names, f.Names())
}

func TestCreate_ComputeSVDDisablesUI(t *testing.T) {
	f := newFactory(t)
	svd, err := f.CreateByName("ComputeSVD")
	require.NoError(t, err)
	assert.False(t, svd.HasUI())

	other, err := f.CreateByName("ReadMatrix")
	require.NoError(t, err)
	assert.True(t, other.HasUI())
}

func TestCreate_StubForUnknownName(t *testing.T) {
	f := newFactory(t)
	info := domain.NewLookupInfo("FancyNewThing", "Misc", "SCIRun")
	m, err := f.Create(f.LookupDescription(info))
	require.NoError(t, err)

	assert.Equal(t, 0, m.NumInputPorts())
	assert.Equal(t, info, m.Info())
	out := m.DoExecute(context.Background())
	assert.False(t, out.Failed())
}

func TestCreate_ValidatesDescription(t *testing.T) {
	f := newFactory(t)

	_, err := f.Create(factory.Description{
		Info:       domain.LookupInfo{ModuleName: "Broken"},
		InputPorts: []domain.PortDescription{{Name: "In", Datatype: "Matrix"}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.Create(factory.Description{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCreate_NilModuleFromMaker(t *testing.T) {
	f := newFactory(t)
	_, err := f.Create(factory.Description{
		Info:  domain.LookupInfo{ModuleName: "Nothing"},
		Maker: func(c *module.Context) *module.Module { return nil },
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRegister(t *testing.T) {
	f := newFactory(t, factory.WithoutBuiltins())
	assert.Empty(t, f.Names())

	f.Register("Echo", factory.Entry{
		InputPorts:  []domain.PortDescription{domain.NewPortDescription("In", domain.DatatypeAny, "gray")},
		OutputPorts: []domain.PortDescription{domain.NewPortDescription("Out", domain.DatatypeAny, "gray")},
		Maker: func(c *module.Context) *module.Module {
			return module.New(c, domain.LookupInfo{ModuleName: "Echo"}, module.ExecutorFunc(
				func(ctx context.Context, m *module.Module) error {
					h, err := m.GetRequiredInput(0)
					if err != nil {
						return err
					}
					return m.SendOutputHandle(0, h)
				}))
		},
		PostBuild: func(b *module.Builder) { b.DisableUI() },
	})

	assert.Equal(t, []string{"Echo"}, f.Names())
	assert.True(t, f.Has("Echo"))

	m, err := f.CreateByName("Echo")
	require.NoError(t, err)
	assert.False(t, m.HasUI())
	assert.Equal(t, 1, m.NumInputPorts())
}

func TestSetStateFactory(t *testing.T) {
	f := newFactory(t)
	f.SetStateFactory(nil)

	m, err := f.CreateByName("SendScalar")
	require.NoError(t, err)
	assert.IsType(t, state.Null{}, m.State())

	f.SetStateFactory(state.Factory{})
	m, err = f.CreateByName("SendScalar")
	require.NoError(t, err)
	v, ok := m.State().Value("Value")
	require.True(t, ok, "defaults are written into the new state")
	assert.Equal(t, domain.KindFloat, v.Kind())
}
