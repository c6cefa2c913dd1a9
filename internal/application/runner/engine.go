package runner

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/ogw/sanity-backend/internal/domain/runner"
	"github.com/ogw/sanity-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Gateway is the outbound transaction boundary. Post issues one SOAP-style
// request and returns the raw response body regardless of HTTP status; Get
// fetches supplementary documents.
type Gateway interface {
	Post(ctx context.Context, url, soapAction, payload string, creds runner.Credentials) (string, error)
	Get(ctx context.Context, url string) (int, string, error)
}

// SourceSelector builds the status-check collaborator for one run from the
// caller-supplied connection parameters.
type SourceSelector func(cfg runner.StatusStoreConfig) runner.StatusSource

// Engine executes scenario workflows. One Execute call runs a single scenario
// to completion or failure, sequentially; concurrent calls are independent.
type Engine struct {
	gateway     Gateway
	poller      *Poller
	sources     SourceSelector
	consumption ConsumptionChecker
	log         *zap.Logger
	newOrderID  func() string

	scenarios []scenario
	index     map[string]scenario
}

// NewEngine wires the engine with its collaborators and registers the
// built-in scenario families.
func NewEngine(gateway Gateway, poller *Poller, sources SourceSelector, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		gateway:     gateway,
		poller:      poller,
		sources:     sources,
		consumption: NewSimulatedConsumption(),
		log:         log,
		newOrderID:  randomOrderID,
	}
	e.scenarios = e.buildScenarios()
	e.index = make(map[string]scenario, len(e.scenarios))
	for _, sc := range e.scenarios {
		e.index[sc.id] = sc
	}
	return e
}

// SetConsumptionChecker replaces the simulated evidence-consumption wait with
// a real consumer-side check.
func (e *Engine) SetConsumptionChecker(checker ConsumptionChecker) {
	if checker != nil {
		e.consumption = checker
	}
}

// randomOrderID generates a 9-digit client-side order identifier.
func randomOrderID() string {
	return fmt.Sprintf("%d", 100000000+rand.Intn(900000000))
}

// ScenarioInfo describes one registered scenario for listing callers.
type ScenarioInfo struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// Scenarios lists the registered scenario families in registration order.
func (e *Engine) Scenarios() []ScenarioInfo {
	out := make([]ScenarioInfo, 0, len(e.scenarios))
	for _, sc := range e.scenarios {
		names := make([]string, 0, len(sc.steps))
		for _, st := range sc.steps {
			names = append(names, st.name)
		}
		out = append(out, ScenarioInfo{ID: sc.id, Name: sc.name, Steps: names})
	}
	return out
}

// Execute runs one scenario against the supplied environment. Step failures
// are folded into the returned RunResult; the error return is reserved for
// rejected invocations (unknown scenario, invalid config).
func (e *Engine) Execute(ctx context.Context, scenarioID string, cfg runner.EnvironmentConfig, overrides map[string]string) (runner.RunResult, error) {
	sc, ok := e.index[scenarioID]
	if !ok {
		return runner.RunResult{}, shared.NewDomainError("UNKNOWN_SCENARIO", fmt.Sprintf("unknown scenario %q", scenarioID))
	}
	if err := cfg.Validate(); err != nil {
		return runner.RunResult{}, err
	}

	env := &runEnv{
		eng:       e,
		cfg:       cfg,
		overrides: overrides,
		trail:     runner.NewTrail(),
		ec:        runner.NewExecutionContext(e.newOrderID()),
		source:    e.sources(cfg.StatusStore),
		log: e.log.With(
			zap.String("scenario", sc.id),
		),
	}
	env.log.Info("Starting scenario run", zap.String("order_id", env.ec.OrderID))

	var runErr error
	for _, st := range sc.steps {
		if err := st.run(ctx, env); err != nil {
			// Best-effort steps record their own FAILED entry and
			// return nil; any error here aborts the sequence.
			runErr = err
			break
		}
	}

	res := env.trail.Finalize(env.ec, runErr)
	if res.Success {
		res.Message = sc.successMessage(env.ec)
		env.log.Info("Scenario run completed", zap.String("ogw_order_id", env.ec.CorrelationID))
	} else {
		env.log.Warn("Scenario run aborted", zap.String("error", res.Error))
	}
	return res, nil
}

// scenario is a static, strictly ordered workflow definition. Ordering and
// correlation wiring are fixed; only step payload templates are overridable.
type scenario struct {
	id    string
	name  string
	steps []step
}

func (s scenario) successMessage(ec *runner.ExecutionContext) string {
	if ec.CustomerID != "" {
		return fmt.Sprintf("%s completed successfully. CustomerID: %s", s.name, ec.CustomerID)
	}
	if ec.CorrelationID != "" {
		return fmt.Sprintf("%s completed successfully. OGWOrderID: %s", s.name, ec.CorrelationID)
	}
	return fmt.Sprintf("%s completed successfully", s.name)
}

// step is one named unit of a scenario. run either records a PASS entry and
// returns nil, or records FAILED and returns the abort error. Best-effort
// steps record FAILED but still return nil.
type step struct {
	name string
	run  func(ctx context.Context, env *runEnv) error
}
