package linalg

import (
	"context"

	"github.com/aretw0/dataflow/pkg/datatypes"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
)

// ReportMatrixInfo state keys.
const (
	KeyType     = "Type"
	KeyRows     = "Rows"
	KeyColumns  = "Columns"
	KeyElements = "Elements"
	KeyMinimum  = "Minimum"
	KeyMaximum  = "Maximum"
)

var ReportMatrixInfoInfo = domain.NewLookupInfo("ReportMatrixInfo", "Math", "SCIRun")

type reportMatrixInfo struct{}

// NewReportMatrixInfo builds a module that publishes the shape and range
// of its input matrix into its state.
func NewReportMatrixInfo(c *module.Context) *module.Module {
	return module.New(c, ReportMatrixInfoInfo, reportMatrixInfo{})
}

func (reportMatrixInfo) Execute(_ context.Context, m *module.Module) error {
	mat, err := module.RequiredInput[*datatypes.DenseMatrix](m, 0)
	if err != nil {
		return err
	}

	st := m.State()
	st.SetValue(KeyType, domain.StringValue("DenseMatrix"))
	st.SetValue(KeyRows, domain.IntValue(int64(mat.Rows())))
	st.SetValue(KeyColumns, domain.IntValue(int64(mat.Cols())))
	st.SetValue(KeyElements, domain.IntValue(int64(mat.Len())))
	if mat.Len() > 0 {
		st.SetValue(KeyMinimum, domain.FloatValue(mat.Min()))
		st.SetValue(KeyMaximum, domain.FloatValue(mat.Max()))
	}
	return nil
}
