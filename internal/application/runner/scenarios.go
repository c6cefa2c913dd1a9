package runner

// Scenario identifiers. Callers address scenarios by these IDs; the step
// sequences behind them are fixed.
const (
	ScenarioCableSubmitOrder     = "cable-submit-order"
	ScenarioTelesalesSubmitOrder = "mobile-telesales-submit-order"
	ScenarioRetailSubmitOrder    = "mobile-retail-submit-order"
	ScenarioGetOrder             = "get-order"
	ScenarioDSLSubmitOrder       = "dsl-submit-order"
	ScenarioSearchCustomer       = "search-customer"
	ScenarioLegacySearch         = "legacy-search"
)

// buildScenarios assembles the seven workflow families from the shared step
// builders. Sequencing is the contract here: every family submits before it
// polls, and every status transition is verified by the DB check that
// follows it.
func (e *Engine) buildScenarios() []scenario {
	return []scenario{
		{
			id:   ScenarioCableSubmitOrder,
			name: "Cable Submit Order",
			steps: []step{
				e.submitStep(StepGenerateContract, "GENERATE_CONTRACT"),
				e.submitStep(StepFulfillment, "FULFILLMENT"),
				e.pollStep("DB Check (after Fulfillment)"),
				e.setOrderStatusStep(StepSetOrderStatus),
				e.pollStep("DB Check (after SetOrderStatus)"),
				e.downloadCDMStep(),
			},
		},
		{
			id:   ScenarioTelesalesSubmitOrder,
			name: "Mobile Telesales Submit Order",
			steps: []step{
				e.submitStep(StepGenerateContract, "GENERATE_CONTRACT"),
				e.submitStep(StepFulfillment, "FULFILLMENT"),
				e.pollStep("DB Check (after Fulfillment)"),
				e.createFridaEvidenceStep(),
				e.fridaConsumptionStep(),
				e.perLineStatusStep(StepSetOrderStatusEAI, setOrderStatusLineTemplate, "EAI status set"),
				e.pollStep("DB Check (after SetOrderStatus_EAI)"),
				e.auftragIDStep(),
				e.omSendDocumentStep(),
				e.pollStep("DB Check (after OMSendDocumentCallback)"),
				e.perLineStatusStep(StepHWFulfilment, hwFulfilmentReadyTemplate, "HW fulfilment ready"),
				e.pollStep("DB Check (after HWFulfilmentReady)"),
				e.downloadCDMStep(),
			},
		},
		{
			id:   ScenarioRetailSubmitOrder,
			name: "Mobile Retail Submit Order",
			steps: []step{
				e.submitStep(StepGenerateContract, "GENERATE_CONTRACT"),
				e.submitStep(StepFulfillment, "FULFILLMENT"),
				e.pollStep("DB Check (after Fulfillment)"),
				e.perLineStatusStep(StepSetOrderStatusEAI, setOrderStatusLineTemplate, "EAI status set"),
				e.pollStep("DB Check (after SetOrderStatus_EAI)"),
				e.perLineStatusStep(StepImportedInVoras, setOrderStatusLineTemplate, "VORAS import status set"),
				e.pollStep("DB Check (after IMPORTED_IN_VORAS)"),
				e.perLineStatusStep(StepVorasFinal, setOrderStatusLineTemplate, "VORAS final success handout sent"),
				e.pollStep("DB Check (after VORAS_FINAL_SUCCESS_HANDOUT)"),
				e.downloadCDMStep(),
			},
		},
		{
			id:   ScenarioGetOrder,
			name: "Get Order",
			steps: []step{
				e.submitStep(StepGenerateContract, "GENERATE_CONTRACT"),
				e.submitStep(StepFulfillment, "FULFILLMENT"),
				e.pollStep("DB Check (after Fulfillment)"),
				e.perLineStatusStep(StepSetOrderStatusEAI, setOrderStatusLineTemplate, "EAI status set"),
				e.pollStep("DB Check (after SetOrderStatus_EAI)"),
				e.getOrderStep(),
				e.downloadCDMStep(),
			},
		},
		{
			id:   ScenarioDSLSubmitOrder,
			name: "DSL Submit Order",
			steps: []step{
				e.submitStep(StepGenerateContract, "GENERATE_CONTRACT"),
				e.submitStep(StepFulfillment, "FULFILLMENT"),
				e.pollStep("DB Check (after Fulfillment)"),
				e.barcodeStep(),
				e.setFNOrderStatusStep(StepSetFNOrderStatus+" (CUSTOMER_CREATED)", "CUSTOMER_CREATED"),
				e.pollStep("DB Check (after CUSTOMER_CREATED)"),
				e.setFNOrderStatusStep(StepSetFNOrderStatus+" (ORDER_COMPLETED)", "ORDER_COMPLETED"),
				e.pollStep("DB Check (after ORDER_COMPLETED)"),
				e.downloadCDMStep(),
			},
		},
		{
			id:   ScenarioSearchCustomer,
			name: "Search Customer",
			steps: []step{
				e.searchStep(StepCustomerSearch, customerSearchTemplate, customerSearchPath, false),
			},
		},
		{
			id:   ScenarioLegacySearch,
			name: "Legacy Search",
			steps: []step{
				e.searchStep(StepLegacySearch, legacySearchTemplate, legacySearchPath, true),
			},
		},
	}
}
