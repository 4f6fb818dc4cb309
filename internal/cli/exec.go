package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/dataflow/internal/presentation/tui"
	"github.com/aretw0/dataflow/pkg/domain"
)

// ExecResult is what the exec command reports.
type ExecResult struct {
	Outcome domain.Outcome          `json:"outcome"`
	State   map[string]domain.Value `json:"state"`
}

// Exec builds one module, applies values, runs one cycle and returns the
// outcome with the resulting state. A failed cycle is not an error.
func Exec(ctx context.Context, rt *Runtime, name string, values map[string]domain.Value) (*ExecResult, error) {
	m, err := rt.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if _, err := rt.UpdateState(ctx, m.ID(), values); err != nil {
			return nil, err
		}
	}
	out, err := rt.Execute(ctx, m.ID())
	if err != nil {
		return nil, err
	}
	return &ExecResult{Outcome: out, State: m.State().Snapshot()}, nil
}

// PrintExecResult writes res as JSON, or as rendered markdown when render is set.
func PrintExecResult(w io.Writer, res *ExecResult, render func(string) (string, error), asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	md := fmt.Sprintf("# %s: %s\n\n", res.Outcome.ModuleID, res.Outcome.Status)
	if f := res.Outcome.Failure; f != nil {
		md += fmt.Sprintf("> **%s** %s: %s\n\n", f.Kind, f.Category, f.Message)
	}
	md += tui.StateMarkdown(res.Outcome.ModuleID, res.State)

	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
