package runner

// Service paths on the transaction endpoint.
const (
	submitOrderPath      = "/VFDESubmitOrderEG/VFDE"
	setOrderStatusPath   = "/VFDESetOrderStatusEG/VFDE"
	sendDocumentPath     = "/VFDESendDocumentEG/VFDE"
	getOrderPath         = "/VFDEGetOrderEG/VFDE"
	setFNOrderStatusPath = "/VFDESetFNOrderStatusEG/VFDE"
	customerSearchPath   = "/VFDECustomerSearchEG/VFDE"
	legacySearchPath     = "/VFDELegacySearchEG/VFDE"
)

// Stable step names. Caller-supplied template overrides are keyed by these;
// per-line trail entries suffix the line identifier onto the base name but
// resolve their override under the base name.
const (
	StepGenerateContract    = "SubmitOrder (GenerateContract)"
	StepFulfillment         = "SubmitOrder (Fulfillment)"
	StepSetOrderStatus      = "SetOrderStatus"
	StepSetOrderStatusEAI   = "SetOrderStatus_EAI"
	StepImportedInVoras     = "IMPORTED_IN_VORAS"
	StepVorasFinal          = "VORAS_FINAL_SUCCESS_HANDOUT"
	StepHWFulfilment        = "HWFulfilmentReady"
	StepOMSendDocument      = "OMSendDocumentCallback"
	StepGetOrder            = "GetOrder"
	StepSetFNOrderStatus    = "SetFNOrderStatus"
	StepCreateFridaEvidence = "Create FRIDA Evidence"
	StepFridaConsumption    = "FRIDA Consumption"
	StepCustomerSearch      = "CustomerSearch"
	StepLegacySearch        = "LegacySearch"
	StepDownloadCDM         = "Download CDM"
)

// TemplateFridaEvidence keys the per-line evidence JSON override. It is a
// template key rather than a step name: the rendered documents surface under
// the Create FRIDA Evidence trail entry.
const TemplateFridaEvidence = "FRIDA Evidence JSON"

// Default request templates. Override templates must support the same
// placeholder set.
const submitOrderTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:SubmitOrder>
      <OrderID>{{ORDER_ID}}</OrderID>
      <Mode>{{MODE}}</Mode>
      <OGWOrderID>{{OGW_ORDER_ID}}</OGWOrderID>
    </vfde:SubmitOrder>
  </soapenv:Body>
</soapenv:Envelope>`

const setOrderStatusTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:SetOrderStatus>
      <OGWSubOrderId>{{OGW_ORDER_ID}}</OGWSubOrderId>
    </vfde:SetOrderStatus>
  </soapenv:Body>
</soapenv:Envelope>`

const setOrderStatusLineTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:SetOrderStatus>
      <OGWSubOrderId>{{OGW_ORDER_ID}}</OGWSubOrderId>
      <OGWSubscriberId>{{ORDER_LINE_ID}}</OGWSubscriberId>
    </vfde:SetOrderStatus>
  </soapenv:Body>
</soapenv:Envelope>`

const hwFulfilmentReadyTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:SetOrderStatus>
      <OGWSubOrderId>{{OGW_ORDER_ID}}</OGWSubOrderId>
      <OGWOrderLineId>{{ORDER_LINE_ID}}</OGWOrderLineId>
    </vfde:SetOrderStatus>
  </soapenv:Body>
</soapenv:Envelope>`

const omSendDocumentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:sendDocumentResponse>
      <auftragId>{{AUFTRAG_ID}}</auftragId>
      <externeId>{{OGW_ORDER_ID}}|{{ORDER_LINE_ID}}|P</externeId>
    </vfde:sendDocumentResponse>
  </soapenv:Body>
</soapenv:Envelope>`

const getOrderTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:GetOrder>
      <OGWOrderId>{{OGW_ORDER_ID}}</OGWOrderId>
    </vfde:GetOrder>
  </soapenv:Body>
</soapenv:Envelope>`

const setFNOrderStatusTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ogw="http://ogw.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <ogw:SetFNOrderStatus>
      <ogw:orderId>{{BAR_CODE}}</ogw:orderId>
      <ogw:barcode>{{BAR_CODE}}</ogw:barcode>
      <ogw:status>{{STATUS}}</ogw:status>
    </ogw:SetFNOrderStatus>
  </soapenv:Body>
</soapenv:Envelope>`

const customerSearchTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:CustomerSearch>
      <CustomerID>{{CUSTOMER_ID}}</CustomerID>
    </vfde:CustomerSearch>
  </soapenv:Body>
</soapenv:Envelope>`

const legacySearchTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:vfde="http://vfde.amdocs.com/">
  <soapenv:Header/>
  <soapenv:Body>
    <vfde:LegacySearch>
      <CustomerID>{{CUSTOMER_ID}}</CustomerID>
    </vfde:LegacySearch>
  </soapenv:Body>
</soapenv:Envelope>`
