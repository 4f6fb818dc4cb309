package domain

import "time"

// CycleStatus is the result of one supervised execution cycle.
type CycleStatus string

const (
	StatusCompleted CycleStatus = "completed"
	StatusFailed    CycleStatus = "failed"
)

// FailureKind classifies why a cycle failed.
type FailureKind string

const (
	FailureAllocation FailureKind = "allocation" // Allocation failure during execute
	FailureDomain     FailureKind = "domain"     // ExecutionError raised by module logic
	FailureRuntime    FailureKind = "runtime"    // Any other error or runtime panic
	FailureUnhandled  FailureKind = "unhandled"  // Panic with a non-error value
)

// Failure describes a contained execution failure.
type Failure struct {
	Kind     FailureKind `json:"kind"`
	Category string      `json:"category,omitempty"`
	Message  string      `json:"message"`
}

// Outcome is returned by every supervised execution cycle.
// The supervisor never propagates a failure; callers branch on Status instead.
type Outcome struct {
	CycleID  string        `json:"cycle_id"`
	ModuleID string        `json:"module_id"`
	Status   CycleStatus   `json:"status"`
	Failure  *Failure      `json:"failure,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the cycle was abandoned.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}
