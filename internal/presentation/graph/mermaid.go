package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/factory"
	"github.com/aretw0/dataflow/pkg/module"
)

// Overlay contains execution results to visualize on a network graph.
type Overlay struct {
	Status map[string]domain.CycleStatus // module id -> last cycle status
}

// GenerateMermaid renders the port layout of one module description:
// every input feeds the module node, which feeds every output.
// Port labels carry the datatype; edges are colored with the port color.
func GenerateMermaid(desc factory.Description) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	name := desc.Info.ModuleName
	safeID := sanitizeMermaidID(name)
	shape := "[[\"%s\"]]"
	if !desc.HasMaker() {
		shape = "[\"%s\"]"
	}
	fmt.Fprintf(&sb, "    %s"+shape+"\n", safeID, name)

	link := 0
	var styles []string
	for i, p := range desc.InputPorts {
		pid := fmt.Sprintf("in%d", i)
		fmt.Fprintf(&sb, "    %s[/\"%s <br/> %s\"/]\n", pid, p.Name, p.Datatype)
		fmt.Fprintf(&sb, "    %s --> %s\n", pid, safeID)
		styles = append(styles, linkStyle(link, p.Color))
		link++
	}
	for i, p := range desc.OutputPorts {
		pid := fmt.Sprintf("out%d", i)
		fmt.Fprintf(&sb, "    %s[\\\"%s <br/> %s\"\\]\n", pid, p.Name, p.Datatype)
		fmt.Fprintf(&sb, "    %s --> %s\n", safeID, pid)
		styles = append(styles, linkStyle(link, p.Color))
		link++
	}
	for _, s := range styles {
		if s != "" {
			sb.WriteString(s)
		}
	}
	return sb.String()
}

// GenerateNetworkMermaid renders live instances and their connections.
// Edges are recovered from each input port's upstream connection id.
func GenerateNetworkMermaid(mods []*module.Module, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	sorted := append([]*module.Module(nil), mods...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })

	for _, m := range sorted {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(m.ID()), m.ID())
	}
	for _, m := range sorted {
		for _, in := range m.Inputs().All() {
			src, out, ok := parseUpstream(in.Upstream(), m.ID(), in.Index())
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%d:%d %s\" --> %s\n",
				sanitizeMermaidID(src), out, in.Index(), in.Datatype(), sanitizeMermaidID(m.ID()))
		}
	}

	if overlay != nil && len(overlay.Status) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef completed fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		ids := make([]string, 0, len(overlay.Status))
		for id := range overlay.Status {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(id), overlay.Status[id])
		}
	}
	return sb.String()
}

// parseUpstream splits "Src:out_Dst:in" knowing the destination half.
func parseUpstream(connID, dstID string, dstIdx int) (string, int, bool) {
	suffix := "_" + dstID + ":" + strconv.Itoa(dstIdx)
	if connID == "" || !strings.HasSuffix(connID, suffix) {
		return "", 0, false
	}
	head := strings.TrimSuffix(connID, suffix)
	i := strings.LastIndex(head, ":")
	if i < 0 {
		return "", 0, false
	}
	out, err := strconv.Atoi(head[i+1:])
	if err != nil {
		return "", 0, false
	}
	return head[:i], out, true
}

var mermaidColors = map[string]string{
	"blue":      "#1e88e5",
	"cyan":      "#00acc1",
	"yellow":    "#fdd835",
	"magenta":   "#d81b60",
	"red":       "#e53935",
	"green":     "#43a047",
	"darkGreen": "#1b5e20",
}

func linkStyle(idx int, color string) string {
	hex, ok := mermaidColors[color]
	if !ok {
		return ""
	}
	return fmt.Sprintf("    linkStyle %d stroke:%s,stroke-width:2px;\n", idx, hex)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
