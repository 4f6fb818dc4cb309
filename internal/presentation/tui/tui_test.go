package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/dataflow/internal/presentation/tui"
	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/stretchr/testify/assert"
)

func TestDescribeMarkdown(t *testing.T) {
	desc := factory.Description{
		Info: domain.NewLookupInfo("ComputeSVD", "Math", "SCIRun"),
		InputPorts: []domain.PortDescription{
			domain.NewPortDescription("Input", domain.DatatypeMatrix, "blue"),
		},
	}
	md := tui.DescribeMarkdown(desc)
	assert.Contains(t, md, "# ComputeSVD")
	assert.Contains(t, md, "*SCIRun / Math*")
	assert.Contains(t, md, "no implementation is registered")
	assert.Contains(t, md, "| 0 | Input | Matrix | blue |")
	assert.Contains(t, md, "## Outputs\n\n_none_")
}

func TestStateMarkdown(t *testing.T) {
	md := tui.StateMarkdown("SendScalar0", map[string]domain.Value{
		"Value": domain.FloatValue(2.5),
		"Label": domain.StringValue("x"),
	})
	assert.Contains(t, md, "| Label | string | x |\n| Value | float | 2.5 |")
	assert.Contains(t, tui.StateMarkdown("A0", nil), "_empty_")
}

func TestRenderer_Plain(t *testing.T) {
	out, err := tui.NewRenderer(false)("# title")
	assert.NoError(t, err)
	assert.Equal(t, "# title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.1.0\n")
	assert.Contains(t, buf.String(), "v0.1.0")
}
