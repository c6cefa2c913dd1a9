package runner

// StepStatus is the outcome of a single workflow step.
type StepStatus string

const (
	StepPass   StepStatus = "PASS"
	StepFailed StepStatus = "FAILED"
)

// StepResult is one immutable entry of the run's audit trail.
type StepResult struct {
	Name     string     `json:"name"`
	Status   StepStatus `json:"status"`
	Message  string     `json:"message"`
	Request  string     `json:"request,omitempty"`
	Response string     `json:"response,omitempty"`
}

// Trail accumulates step outcomes for one workflow run. Entries are
// append-only; nothing is ever removed, replaced, or reordered.
type Trail struct {
	steps []StepResult
}

// NewTrail creates an empty step trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Record appends a step outcome to the trail.
func (t *Trail) Record(r StepResult) {
	t.steps = append(t.steps, r)
}

// Pass appends a PASS entry.
func (t *Trail) Pass(name, message, request, response string) {
	t.Record(StepResult{Name: name, Status: StepPass, Message: message, Request: request, Response: response})
}

// Fail appends a FAILED entry.
func (t *Trail) Fail(name, message, request, response string) {
	t.Record(StepResult{Name: name, Status: StepFailed, Message: message, Request: request, Response: response})
}

// Len returns the number of recorded steps.
func (t *Trail) Len() int {
	return len(t.steps)
}

// Steps returns a copy of the recorded steps in order.
func (t *Trail) Steps() []StepResult {
	out := make([]StepResult, len(t.steps))
	copy(out, t.steps)
	return out
}

// RunResult packages the trail of one workflow run together with the
// top-level outcome and the identifiers the run produced.
type RunResult struct {
	Success       bool         `json:"success"`
	OrderID       string       `json:"orderId,omitempty"`
	CorrelationID string       `json:"ogwOrderId,omitempty"`
	CustomerID    string       `json:"customerId,omitempty"`
	Steps         []StepResult `json:"steps"`
	Message       string       `json:"message,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// Finalize packages the accumulated trail plus the run outcome. The caller
// always receives a result, including for partial runs aborted mid-sequence.
func (t *Trail) Finalize(ec *ExecutionContext, runErr error) RunResult {
	res := RunResult{
		Success: runErr == nil,
		Steps:   t.Steps(),
	}
	if ec != nil {
		res.OrderID = ec.OrderID
		res.CorrelationID = ec.CorrelationID
		res.CustomerID = ec.CustomerID
	}
	if runErr != nil {
		res.Error = runErr.Error()
	}
	return res
}
