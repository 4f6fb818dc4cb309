package connection_test

import (
	"context"
	"testing"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/connection"
	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() *module.Context {
	return module.NewContext(
		module.WithLogger(logging.NewNop()),
		module.WithSinkMaker(memory.NewSink),
		module.WithSourceMaker(memory.NewSource),
	)
}

func TestConnect(t *testing.T) {
	c := newContext()
	from := module.NewBuilder(c).WithName("From").
		AddOutputPort(domain.NewPortDescription("Out", domain.DatatypeMatrix, "blue")).Build()
	to := module.NewBuilder(c).WithName("To").
		AddInputPort(domain.NewPortDescription("In", domain.DatatypeMatrix, "blue")).Build()

	conn, err := connection.ConnectModules(from, 0, to, 0)
	require.NoError(t, err)
	assert.Equal(t, from.ID()+":0_"+to.ID()+":0", conn.ID())
	assert.Equal(t, conn.ID(), to.InputPort(0).Upstream())

	h := datatypes.Identity(2)
	require.NoError(t, from.SendOutputHandle(0, h))
	got, ok, err := to.InputHandle(0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, h, got)

	_, err = connection.ConnectModules(from, 0, to, 0)
	assert.ErrorIs(t, err, connection.ErrInputAlreadyConnected)

	conn.Disconnect()
	conn.Disconnect()
	assert.Empty(t, to.InputPort(0).Upstream())
	_, ok, _ = to.InputHandle(0)
	assert.False(t, ok)

	_, err = connection.ConnectModules(from, 0, to, 0)
	assert.NoError(t, err, "reconnect after disconnect")
}

func TestConnect_Compatibility(t *testing.T) {
	assert.True(t, connection.Compatible("Matrix", "Matrix"))
	assert.True(t, connection.Compatible("Datatype", "Matrix"))
	assert.True(t, connection.Compatible("Field", "Datatype"))
	assert.False(t, connection.Compatible("Matrix", "Scalar"))

	c := newContext()
	from := module.NewBuilder(c).WithName("From").
		AddOutputPort(domain.NewPortDescription("Out", domain.DatatypeScalar, "cyan")).Build()
	to := module.NewBuilder(c).WithName("To").
		AddInputPort(domain.NewPortDescription("In", domain.DatatypeMatrix, "blue")).Build()

	_, err := connection.ConnectModules(from, 0, to, 0)
	assert.ErrorIs(t, err, connection.ErrIncompatiblePorts)
}

func TestConnectModules_Bounds(t *testing.T) {
	c := newContext()
	m := module.NewBuilder(c).WithName("Lonely").Build()

	_, err := connection.ConnectModules(m, 0, m, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestConnect_NoTransport(t *testing.T) {
	c := module.NewContext(module.WithLogger(logging.NewNop()))
	m := module.NewBuilder(c).WithName("Bare").
		AddInputPort(domain.NewPortDescription("In", domain.DatatypeMatrix, "blue")).
		AddOutputPort(domain.NewPortDescription("Out", domain.DatatypeMatrix, "blue")).
		Build()

	_, err := connection.ConnectModules(m, 0, m, 0)
	assert.ErrorIs(t, err, connection.ErrNoTransport)
}

func TestPipeline_SendReceiveScalar(t *testing.T) {
	c := newContext()
	var got float64
	send := module.NewBuilder(c).
		UsingFunc(func(c *module.Context) *module.Module {
			return module.New(c, domain.LookupInfo{ModuleName: "Send"}, module.ExecutorFunc(
				func(ctx context.Context, m *module.Module) error {
					return m.SendOutputHandle(0, datatypes.NewScalar(4.5))
				}))
		}).
		AddOutputPort(domain.NewPortDescription("Output", domain.DatatypeScalar, "cyan")).
		Build()
	recv := module.NewBuilder(c).
		UsingFunc(func(c *module.Context) *module.Module {
			return module.New(c, domain.LookupInfo{ModuleName: "Recv"}, module.ExecutorFunc(
				func(ctx context.Context, m *module.Module) error {
					s, err := module.RequiredInput[*datatypes.Scalar](m, 0)
					if err != nil {
						return err
					}
					got = s.Value()
					return nil
				}))
		}).
		AddInputPort(domain.NewPortDescription("Input", domain.DatatypeScalar, "cyan")).
		Build()

	_, err := connection.ConnectModules(send, 0, recv, 0)
	require.NoError(t, err)

	require.False(t, send.DoExecute(context.Background()).Failed())
	require.False(t, recv.DoExecute(context.Background()).Failed())
	assert.Equal(t, 4.5, got)
}
