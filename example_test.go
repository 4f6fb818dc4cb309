package dataflow_test

import (
	"context"
	"fmt"

	"github.com/aretw0/dataflow"
	"github.com/aretw0/dataflow/pkg/domain"
)

// ExampleRuntime_Run wires a test matrix into its receiver and runs both
// modules once, in order.
func ExampleRuntime_Run() {
	rt := dataflow.New()
	defer rt.Close()
	ctx := context.Background()

	send, _ := rt.Create(ctx, "SendTestMatrix")
	recv, _ := rt.Create(ctx, "ReceiveTestMatrix")
	if _, err := rt.Connect(send.ID(), 0, recv.ID(), 0); err != nil {
		fmt.Println("connect:", err)
		return
	}

	_, _ = rt.UpdateState(ctx, send.ID(), map[string]domain.Value{
		"Rows": domain.IntValue(2),
		"Cols": domain.IntValue(4),
	})

	outcomes, err := rt.Run(ctx, send.ID(), recv.ID())
	if err != nil {
		fmt.Println("run:", err)
		return
	}
	for _, out := range outcomes {
		fmt.Println(out.ModuleID, out.Status)
	}

	rows, _ := recv.State().Value("ReceivedRows")
	cols, _ := recv.State().Value("ReceivedCols")
	fmt.Printf("received %sx%s\n", rows, cols)

	// Output:
	// SendTestMatrix0 completed
	// ReceiveTestMatrix1 completed
	// received 2x4
}
