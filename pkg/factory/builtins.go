package factory

import (
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/module"
	"github.com/aretw0/dataflow/pkg/modules/basic"
	"github.com/aretw0/dataflow/pkg/modules/fields"
	"github.com/aretw0/dataflow/pkg/modules/linalg"
)

func portList(descs ...domain.PortDescription) []domain.PortDescription {
	return descs
}

func matrix(name string) domain.PortDescription {
	return domain.NewPortDescription(name, domain.DatatypeMatrix, "blue")
}

func text(name string) domain.PortDescription {
	return domain.NewPortDescription(name, domain.DatatypeString, "darkGreen")
}

// Builtins returns a fresh copy of the built-in table.
func Builtins() map[string]Entry {
	return map[string]Entry{
		"ComputeSVD": {
			InputPorts:  portList(matrix("Input")),
			OutputPorts: portList(matrix("U"), matrix("S"), matrix("V")),
			PostBuild:   func(b *module.Builder) { b.DisableUI() },
		},
		"ReadMatrix": {
			InputPorts:  portList(text("Input1")),
			OutputPorts: portList(matrix("Output1"), text("Output2")),
		},
		"WriteMatrix": {
			InputPorts: portList(matrix("Input1"), text("Input2")),
		},
		"SendScalar": {
			OutputPorts: portList(basic.ScalarOutputPort),
			Maker:       basic.NewSendScalar,
		},
		"ReceiveScalar": {
			InputPorts: portList(basic.ScalarInputPort),
			Maker:      basic.NewReceiveScalar,
		},
		"SendTestMatrix": {
			OutputPorts: portList(basic.MatrixOutputPort),
			Maker:       basic.NewSendTestMatrix,
		},
		"ReceiveTestMatrix": {
			InputPorts: portList(basic.MatrixInputPort),
			Maker:      basic.NewReceiveTestMatrix,
		},
		"ReportMatrixInfo": {
			InputPorts: portList(linalg.InputPort),
			Maker:      linalg.NewReportMatrixInfo,
		},
		"EvaluateLinearAlgebraUnary": {
			InputPorts:  portList(linalg.InputPort),
			OutputPorts: portList(linalg.ResultPort),
			Maker:       linalg.NewEvaluateLinearAlgebraUnary,
		},
		"EvaluateLinearAlgebraBinary": {
			InputPorts:  portList(linalg.LHSInputPort, linalg.RHSInputPort),
			OutputPorts: portList(linalg.ResultPort),
			Maker:       linalg.NewEvaluateLinearAlgebraBinary,
		},
		"EditMeshBoundingBox": {
			InputPorts: portList(fields.InputFieldPort),
			OutputPorts: portList(
				fields.OutputFieldPort,
				fields.TransformationWidgetPort,
				fields.TransformationMatrixPort,
			),
			Maker: fields.NewEditMeshBoundingBox,
		},
	}
}
