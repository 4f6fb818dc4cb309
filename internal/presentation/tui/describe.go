package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
)

// DescribeMarkdown renders a module description as markdown.
func DescribeMarkdown(desc factory.Description) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", desc.Info.ModuleName)
	if desc.Info.Category != "" || desc.Info.Package != "" {
		fmt.Fprintf(&sb, "*%s / %s*\n\n", desc.Info.Package, desc.Info.Category)
	}
	if !desc.HasMaker() {
		sb.WriteString("> Ports only: no implementation is registered.\n\n")
	}
	writePorts(&sb, "Inputs", desc.InputPorts)
	writePorts(&sb, "Outputs", desc.OutputPorts)
	return sb.String()
}

func writePorts(sb *strings.Builder, title string, ports []domain.PortDescription) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	if len(ports) == 0 {
		sb.WriteString("_none_\n\n")
		return
	}
	sb.WriteString("| # | Name | Datatype | Color |\n|---|---|---|---|\n")
	for i, p := range ports {
		fmt.Fprintf(sb, "| %d | %s | %s | %s |\n", i, p.Name, p.Datatype, p.Color)
	}
	sb.WriteString("\n")
}

// StateMarkdown renders a module state as a key/value table, sorted by key.
func StateMarkdown(id string, values map[string]domain.Value) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## State of %s\n\n", id)
	if len(values) == 0 {
		sb.WriteString("_empty_\n")
		return sb.String()
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sb.WriteString("| Key | Kind | Value |\n|---|---|---|\n")
	for _, k := range keys {
		v := values[k]
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", k, v.Kind(), v.String())
	}
	return sb.String()
}
