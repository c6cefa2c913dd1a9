package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/ogw/sanity-backend/internal/domain/runner"
	"go.uber.org/zap"
)

// runEnv carries the per-invocation state shared by the steps of one run.
type runEnv struct {
	eng       *Engine
	cfg       runner.EnvironmentConfig
	overrides map[string]string
	trail     *runner.Trail
	ec        *runner.ExecutionContext
	source    runner.StatusSource
	log       *zap.Logger
}

// template returns the override registered under key, or the built-in
// default. Overrides must carry the same placeholder set as the default.
func (env *runEnv) template(key, fallback string) string {
	if t, ok := env.overrides[key]; ok && t != "" {
		return t
	}
	return fallback
}

// render substitutes the run's identifiers plus any step-local extras into a
// request template.
func (env *runEnv) render(template string, extra map[string]string) string {
	values := map[string]string{
		"ORDER_ID":     env.ec.OrderID,
		"OGW_ORDER_ID": env.ec.CorrelationID,
		"CUSTOMER_ID":  env.ec.CustomerID,
		"AUFTRAG_ID":   env.ec.DocumentID,
		"BAR_CODE":     env.ec.Barcode,
	}
	for k, v := range extra {
		values[k] = v
	}
	return runner.Render(template, values)
}

// post issues one transaction and classifies the response. Transport errors
// and SOAP faults are recorded as FAILED trail entries and returned; a clean
// response body is handed back for the caller to interpret and record.
func (env *runEnv) post(ctx context.Context, name, path, soapAction, payload string) (string, error) {
	body, err := env.eng.gateway.Post(ctx, env.cfg.Endpoint.URL(path), soapAction, payload, env.cfg.Auth)
	if err != nil {
		env.trail.Fail(name, err.Error(), payload, "")
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if fault, ok := runner.XMLValue(body, "faultstring"); ok {
		ferr := runner.NewFaultError(name, fault)
		env.trail.Fail(name, ferr.Error(), payload, body)
		return "", ferr
	}
	return body, nil
}

// queryValue resolves a single scalar from the status store when the active
// source supports direct queries. The second return reports availability,
// not query failure.
func (env *runEnv) queryValue(ctx context.Context, query string) (string, bool) {
	vq, ok := env.source.(runner.ValueQuerier)
	if !ok {
		return "", false
	}
	v, err := vq.QueryValue(ctx, query)
	if err != nil || v == "" {
		env.log.Warn("Value query failed, falling back to simulated value", zap.Error(err))
		return "", false
	}
	return v, true
}

// submitStep posts a SubmitOrder transaction. The GenerateContract pass
// additionally extracts the server-assigned OGW order identifier, which every
// later step correlates on. The two passes resolve their template overrides
// independently, so a run can replace one without touching the other.
func (e *Engine) submitStep(name, mode string) step {
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		payload := env.render(env.template(name, submitOrderTemplate), map[string]string{"MODE": mode})
		body, err := env.post(ctx, name, submitOrderPath, "SubmitOrder", payload)
		if err != nil {
			return err
		}
		if name == StepGenerateContract {
			corr, ok := runner.XMLValue(body, "OGWOrderID")
			if !ok {
				xerr := &runner.ExtractionError{Field: "OGWOrderID"}
				env.trail.Fail(name, xerr.Error(), payload, body)
				return xerr
			}
			env.ec.CorrelationID = corr
			env.trail.Pass(name, "OGWOrderID: "+corr, payload, body)
			return nil
		}
		env.trail.Pass(name, "Fulfillment submitted", payload, body)
		return nil
	}}
}

// pollStep waits for every order line under the run's correlation identifier
// to reach the complete status. The first successful check seeds the line-ID
// set used by per-line steps.
func (e *Engine) pollStep(name string) step {
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		request := fmt.Sprintf("Query for CDM_TXID = '%s'", env.ec.CorrelationID)
		outcome := e.poller.WaitForCompletion(ctx, env.source, env.ec.CorrelationID, name)
		if !outcome.Success {
			env.trail.Fail(name, outcome.Message, request, fmt.Sprintf("Failed after %d attempts", outcome.Attempts))
			return fmt.Errorf("%s: %s", name, outcome.Message)
		}
		env.ec.SeedLineIDs(outcome.LineIDs)
		env.trail.Pass(name, outcome.Message, request, "Order Line IDs: "+strings.Join(env.ec.LineIDs, ", "))
		return nil
	}}
}

// setOrderStatusStep posts one order-level status transaction.
func (e *Engine) setOrderStatusStep(name string) step {
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		payload := env.render(env.template(name, setOrderStatusTemplate), nil)
		body, err := env.post(ctx, name, setOrderStatusPath, "SetOrderStatus", payload)
		if err != nil {
			return err
		}
		env.trail.Pass(name, "Order status set", payload, body)
		return nil
	}}
}

// perLineStatusStep posts one status transaction per discovered order line.
// Each line gets its own trail entry; the first failing line aborts the run.
// Overrides resolve under the base step name regardless of the line suffix.
func (e *Engine) perLineStatusStep(baseName, fallback, message string) step {
	return step{name: baseName, run: func(ctx context.Context, env *runEnv) error {
		for _, lineID := range env.ec.LineIDs {
			name := fmt.Sprintf("%s (LineID: %s)", baseName, lineID)
			payload := env.render(env.template(baseName, fallback), map[string]string{"ORDER_LINE_ID": lineID})
			body, err := env.post(ctx, name, setOrderStatusPath, "SetOrderStatus", payload)
			if err != nil {
				return err
			}
			env.trail.Pass(name, message, payload, body)
		}
		return nil
	}}
}

// fridaEvidence is the fraud-check verdict dropped for one order line.
type fridaEvidence struct {
	OrderNumber string `json:"orderNumber"`
	NaiveScore  int    `json:"naiveScore"`
	FraudLevel  string `json:"fraudLevel"`
	FraudAction string `json:"fraudAction"`
	CheckDate   string `json:"checkDate"`
}

// createFridaEvidenceStep renders one cleared fraud verdict file per order
// line and records the documents as the step's evidence. A caller-supplied
// evidence template replaces the built-in verdict per line.
func (e *Engine) createFridaEvidenceStep() step {
	return step{name: StepCreateFridaEvidence, run: func(ctx context.Context, env *runEnv) error {
		timestamp := time.Now().Format(time.RFC3339)
		docs := make([]string, 0, len(env.ec.LineIDs))
		for _, lineID := range env.ec.LineIDs {
			if override, ok := env.overrides[TemplateFridaEvidence]; ok && override != "" {
				docs = append(docs, env.render(override, map[string]string{
					"ORDER_LINE_ID": lineID,
					"TIMESTAMP":     timestamp,
				}))
				continue
			}
			raw, err := json.MarshalIndent([]fridaEvidence{{
				OrderNumber: env.ec.CorrelationID + "." + lineID,
				NaiveScore:  2,
				FraudLevel:  "Kein Betrug",
				FraudAction: "Freigeben",
				CheckDate:   timestamp,
			}}, "", "  ")
			if err != nil {
				env.trail.Fail(StepCreateFridaEvidence, err.Error(), "", "")
				return fmt.Errorf("%s: %w", StepCreateFridaEvidence, err)
			}
			docs = append(docs, string(raw))
		}
		env.trail.Pass(StepCreateFridaEvidence,
			fmt.Sprintf("Created %d FRIDA evidence file(s)", len(docs)),
			"Evidence for Order Lines: "+strings.Join(env.ec.LineIDs, ", "),
			strings.Join(docs, "\n\n---\n\n"))
		return nil
	}}
}

// fridaConsumptionStep waits for the downstream consumers to pick the
// evidence files up and mark the subscriber records handled.
func (e *Engine) fridaConsumptionStep() step {
	return step{name: StepFridaConsumption, run: func(ctx context.Context, env *runEnv) error {
		request := fmt.Sprintf("Checking FRIDA consumption for %d evidence files", len(env.ec.LineIDs))
		msg, err := e.consumption.WaitForConsumption(ctx, env.ec.CorrelationID)
		if err != nil {
			env.trail.Fail(StepFridaConsumption, err.Error(), request, "")
			return fmt.Errorf("%s: %w", StepFridaConsumption, err)
		}
		env.trail.Pass(StepFridaConsumption, "FRIDA evidence files processed", request, msg)
		return nil
	}}
}

// auftragIDStep resolves the document identifier assigned by the order
// gateway. Without direct store access the run continues on a simulated
// value so the document callback can still be exercised.
func (e *Engine) auftragIDStep() step {
	const name = "AuftragId Lookup"
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		query := fmt.Sprintf(
			"SELECT AUFTRAG_ID FROM send_document_req_handler WHERE TRIM(CDM_TXID) = '%s' AND ROWNUM = 1",
			env.ec.CorrelationID,
		)
		if v, ok := env.queryValue(ctx, query); ok {
			env.ec.DocumentID = v
			env.trail.Pass(name, "AuftragId: "+v, "", "")
			return nil
		}
		env.ec.DocumentID = "SIMULATED_AUFTRAG_ID"
		env.trail.Pass(name, "AuftragId: SIMULATED_AUFTRAG_ID (simulated)", "", "")
		return nil
	}}
}

// barcodeStep resolves the FN order barcode for the run, falling back to a
// deterministic simulated barcode when the store is unreachable.
func (e *Engine) barcodeStep() step {
	const name = "Barcode Lookup"
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		query := fmt.Sprintf(
			"SELECT BARCODE FROM set_fn_order_status_req_handler WHERE TRIM(CDM_TXID) = '%s' AND ROWNUM = 1",
			env.ec.CorrelationID,
		)
		if v, ok := env.queryValue(ctx, query); ok {
			env.ec.Barcode = v
			env.trail.Pass(name, "Barcode: "+v, "", "")
			return nil
		}
		env.ec.Barcode = "BARCODE_" + env.ec.CorrelationID
		env.trail.Pass(name, "Barcode: "+env.ec.Barcode+" (simulated)", "", "")
		return nil
	}}
}

// omSendDocumentStep posts the order-management document callback per line,
// carrying the previously resolved auftragId.
func (e *Engine) omSendDocumentStep() step {
	return step{name: StepOMSendDocument, run: func(ctx context.Context, env *runEnv) error {
		for _, lineID := range env.ec.LineIDs {
			name := fmt.Sprintf("%s (LineID: %s)", StepOMSendDocument, lineID)
			payload := env.render(env.template(StepOMSendDocument, omSendDocumentTemplate), map[string]string{"ORDER_LINE_ID": lineID})
			body, err := env.post(ctx, name, sendDocumentPath, "sendDocumentResponse", payload)
			if err != nil {
				return err
			}
			env.trail.Pass(name, "Document callback sent", payload, body)
		}
		return nil
	}}
}

// setFNOrderStatusStep advances the fixed-network order to one status. The
// run's barcode must already be resolved. Both status passes share the
// SetFNOrderStatus override key.
func (e *Engine) setFNOrderStatusStep(name, status string) step {
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		payload := env.render(env.template(StepSetFNOrderStatus, setFNOrderStatusTemplate), map[string]string{"STATUS": status})
		body, err := env.post(ctx, name, setFNOrderStatusPath, "SetFNOrderStatus", payload)
		if err != nil {
			return err
		}
		env.trail.Pass(name, "Status "+status+" set", payload, body)
		return nil
	}}
}

// getOrderStep fetches the order back from the gateway as a read check.
func (e *Engine) getOrderStep() step {
	return step{name: StepGetOrder, run: func(ctx context.Context, env *runEnv) error {
		payload := env.render(env.template(StepGetOrder, getOrderTemplate), nil)
		body, err := env.post(ctx, StepGetOrder, getOrderPath, "GetOrder", payload)
		if err != nil {
			return err
		}
		env.trail.Pass(StepGetOrder, "GetOrder successful for OGWOrderID: "+env.ec.CorrelationID, payload, body)
		return nil
	}}
}

// searchStep runs a single-transaction search scenario against a freshly
// generated customer identifier and validates the gateway's verdict fields.
func (e *Engine) searchStep(name, fallback, path string, plain bool) step {
	return step{name: name, run: func(ctx context.Context, env *runEnv) error {
		env.ec.CustomerID = fmt.Sprintf("%d", 100000000+rand.Intn(900000000))
		payload := env.render(env.template(name, fallback), nil)
		url := env.cfg.Endpoint.URL(path)
		if plain {
			url = env.cfg.Endpoint.PlainURL(path)
		}
		body, err := env.eng.gateway.Post(ctx, url, name, payload, env.cfg.Auth)
		if err != nil {
			env.trail.Fail(name, err.Error(), payload, "")
			return fmt.Errorf("%s: %w", name, err)
		}
		if fault, ok := runner.XMLValue(body, "faultstring"); ok {
			ferr := runner.NewFaultError(name, fault)
			env.trail.Fail(name, ferr.Error(), payload, body)
			return ferr
		}
		code, _ := runner.XMLValue(body, "ErrorCode")
		desc, _ := runner.XMLValue(body, "ErrorDescription")
		if code != runner.NoErrorCode {
			msg := fmt.Sprintf("Unexpected ErrorCode: %s", code)
			env.trail.Fail(name, msg, payload, body)
			return fmt.Errorf("%s: %s", name, msg)
		}
		if desc != "SUCCESS" {
			msg := fmt.Sprintf("Unexpected ErrorDescription: %s", desc)
			env.trail.Fail(name, msg, payload, body)
			return fmt.Errorf("%s: %s", name, msg)
		}
		msg := fmt.Sprintf("%s completed successfully. CustomerID: %s, ErrorCode: %s, ErrorDescription: %s",
			name, env.ec.CustomerID, code, desc)
		env.trail.Pass(name, msg, payload, body)
		return nil
	}}
}

// downloadCDMStep retrieves the generated order document over the plain
// port. It is strictly best-effort: a failure is recorded in the trail but
// never aborts the run or flips its outcome.
func (e *Engine) downloadCDMStep() step {
	return step{name: StepDownloadCDM, run: func(ctx context.Context, env *runEnv) error {
		url := env.cfg.Endpoint.DocumentURL(env.ec.CorrelationID)
		status, body, err := env.eng.gateway.Get(ctx, url)
		if err != nil {
			env.trail.Fail(StepDownloadCDM, err.Error(), "GET "+url, "")
			return nil
		}
		if status != 200 {
			env.trail.Fail(StepDownloadCDM, fmt.Sprintf("Unexpected HTTP status %d", status), "GET "+url, body)
			return nil
		}
		// A well-formed CDM echoes the order identifier it was requested for.
		orderID := env.ec.CorrelationID
		if id, ok := runner.JSONValue(body, "OGWOrderID"); ok && id != "" {
			orderID = id
		}
		env.trail.Pass(StepDownloadCDM, "CDM downloaded successfully for OGWOrderID: "+orderID, "GET "+url, runner.PrettyJSON(body))
		return nil
	}}
}
