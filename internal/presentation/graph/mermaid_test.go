package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/internal/presentation/graph"
	"github.com/aretw0/dataflow/pkg/adapters/memory"
	"github.com/aretw0/dataflow/pkg/connection"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFactory() *factory.Factory {
	c := module.NewContext(
		module.WithLogger(logging.NewNop()),
		module.WithSinkMaker(memory.NewSink),
		module.WithSourceMaker(memory.NewSource),
	)
	return factory.New(c)
}

func TestGenerateMermaid(t *testing.T) {
	f := newFactory()

	tests := []struct {
		name     string
		module   string
		contains []string
	}{
		{
			name:   "Description Only",
			module: "ComputeSVD",
			contains: []string{
				"graph LR",
				"ComputeSVD[\"ComputeSVD\"]",
				"in0[/\"Input <br/> Matrix\"/]",
				"in0 --> ComputeSVD",
				"ComputeSVD --> out2",
				"linkStyle 0 stroke:#1e88e5",
			},
		},
		{
			name:   "Implemented Module",
			module: "SendScalar",
			contains: []string{
				"SendScalar[[\"SendScalar\"]]",
				"SendScalar --> out0",
				"linkStyle 0 stroke:#00acc1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(f.LookupDescription(domain.LookupInfo{ModuleName: tt.module}))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestGenerateNetworkMermaid(t *testing.T) {
	f := newFactory()
	send, err := f.CreateByName("SendTestMatrix")
	require.NoError(t, err)
	recv, err := f.CreateByName("ReceiveTestMatrix")
	require.NoError(t, err)
	_, err = connection.ConnectModules(send, 0, recv, 0)
	require.NoError(t, err)

	out := graph.GenerateNetworkMermaid([]*module.Module{recv, send}, &graph.Overlay{
		Status: map[string]domain.CycleStatus{
			recv.ID(): domain.StatusFailed,
			send.ID(): domain.StatusCompleted,
		},
	})

	assert.Contains(t, out, "SendTestMatrix0 -- \"0:0 Matrix\" --> ReceiveTestMatrix1")
	assert.Contains(t, out, "class ReceiveTestMatrix1 failed;")
	assert.Contains(t, out, "class SendTestMatrix0 completed;")
	assert.Less(t, strings.Index(out, "ReceiveTestMatrix1[\""), strings.Index(out, "SendTestMatrix0[\""), "nodes are sorted by id")
}

func TestGenerateNetworkMermaid_Unconnected(t *testing.T) {
	f := newFactory()
	recv, err := f.CreateByName("ReceiveScalar")
	require.NoError(t, err)

	out := graph.GenerateNetworkMermaid([]*module.Module{recv}, nil)
	assert.NotContains(t, out, "-->")
	assert.NotContains(t, out, "classDef")
}
