package fields_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/modules/fields"
	"github.com/aretw0/dataflow/pkg/ports"
	"github.com/aretw0/dataflow/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoxModule(t *testing.T) (*module.Module, ports.DataSource, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	f := factory.New(module.NewContext(
		module.WithLogger(logging.NewWithWriter(logs, slog.LevelDebug)),
		module.WithSinkMaker(memory.NewSink),
		module.WithSourceMaker(memory.NewSource),
		module.WithStateFactory(state.Factory{}),
	))
	m, err := f.CreateByName("EditMeshBoundingBox")
	require.NoError(t, err)

	src := memory.NewSource()
	src.Attach(m.InputPort(fields.InputField).Sink())
	return m, src, logs
}

func TestEditMeshBoundingBox_Defaults(t *testing.T) {
	m, _, _ := newBoxModule(t)
	snap := m.State().Snapshot()

	for _, k := range []string{fields.RestrictX, fields.RestrictY, fields.RestrictZ, fields.RestrictR, fields.RestrictD, fields.RestrictI} {
		b, ok := snap[k].AsBool()
		require.True(t, ok, k)
		assert.False(t, b, k)
	}
	for _, k := range []string{fields.InputCenterX, fields.InputCenterY, fields.InputCenterZ, fields.InputSizeX, fields.InputSizeY, fields.InputSizeZ} {
		assert.Equal(t, fields.Cleared, snap[k].String(), k)
	}
	assert.Equal(t, "SCIRun::ChangeMesh::EditMeshBoundingBox", m.Info().Label())
}

func TestEditMeshBoundingBox_ReportsBox(t *testing.T) {
	m, src, _ := newBoxModule(t)

	field, err := datatypes.NewField([]datatypes.Point{{X: -1, Y: 0, Z: 2}, {X: 3, Y: 4, Z: 4}}, nil)
	require.NoError(t, err)
	src.Send(field)

	fieldOut := memory.NewSink()
	matrixOut := memory.NewSink()
	m.OutputPort(fields.OutputField).Source().Attach(fieldOut)
	m.OutputPort(fields.TransformationMatrix).Source().Attach(matrixOut)

	require.False(t, m.DoExecute(context.Background()).Failed())

	snap := m.State().Snapshot()
	assert.Equal(t, "1", snap[fields.InputCenterX].String())
	assert.Equal(t, "2", snap[fields.InputCenterY].String())
	assert.Equal(t, "3", snap[fields.InputCenterZ].String())
	assert.Equal(t, "4", snap[fields.InputSizeX].String())
	assert.Equal(t, "4", snap[fields.InputSizeY].String())
	assert.Equal(t, "2", snap[fields.InputSizeZ].String())

	got, ok := fieldOut.GetData()
	require.True(t, ok)
	assert.Same(t, field, got)

	h, ok := matrixOut.GetData()
	require.True(t, ok)
	transform := h.(*datatypes.DenseMatrix)
	assert.Equal(t, 4.0, transform.At(0, 0))
	assert.Equal(t, -1.0, transform.At(0, 3))
	assert.Equal(t, 1.0, transform.At(3, 3))
}

func TestEditMeshBoundingBox_EmptyFieldUsesUnitCube(t *testing.T) {
	m, src, logs := newBoxModule(t)

	empty, err := datatypes.NewField(nil, nil)
	require.NoError(t, err)
	src.Send(empty)

	require.False(t, m.DoExecute(context.Background()).Failed())
	assert.Contains(t, logs.String(), "Input field is empty -- using unit cube.")

	snap := m.State().Snapshot()
	assert.Equal(t, "0.5", snap[fields.InputCenterX].String())
	assert.Equal(t, "1", snap[fields.InputSizeZ].String())
}

func TestEditMeshBoundingBox_NoInputClearsValues(t *testing.T) {
	m, src, _ := newBoxModule(t)

	field, err := datatypes.NewField([]datatypes.Point{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 2, Z: 2}}, nil)
	require.NoError(t, err)
	src.Send(field)
	require.False(t, m.DoExecute(context.Background()).Failed())

	src.Reset()
	out := m.DoExecute(context.Background())
	require.True(t, out.Failed())
	assert.Equal(t, domain.CategoryNoData, out.Failure.Category)
	v, _ := m.State().Value(fields.InputCenterX)
	assert.Equal(t, fields.Cleared, v.String())
}
