package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/dataflow/internal/logging"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := NewMetrics()
	c := module.NewContext(
		module.WithLogger(logging.NewNop()),
		module.WithLifecycleHooks(m.Hooks()),
	)

	ok := module.New(c, domain.LookupInfo{ModuleName: "ReadMatrix"}, nil)
	bad := module.New(c, domain.LookupInfo{ModuleName: "ComputeSVD"}, module.ExecutorFunc(
		func(context.Context, *module.Module) error {
			return domain.NewExecutionError(domain.CategoryNoData, "no input")
		},
	))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.live))

	ok.DoExecute(context.Background())
	ok.DoExecute(context.Background())
	bad.DoExecute(context.Background())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.executions.WithLabelValues("ReadMatrix", "completed", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.executions.WithLabelValues("ComputeSVD", "failed", "domain")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	require.NoError(t, bad.Close())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.live))
	require.NoError(t, ok.Close())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.live))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.live.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dataflow_modules_live 3")
}
