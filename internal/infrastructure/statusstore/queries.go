package statusstore

import (
	"fmt"
	"strings"
)

// quoteLiteral escapes a value for embedding in a store query literal. The
// status store speaks a fixed dialect that offers no bind parameters across
// the proxy boundary, so literals are the lowest common denominator.
func quoteLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// orderLineStatusQuery builds the completion-check query for one correlation
// identifier. The line identifier and error code live inside the handler's
// XML message payload, not in dedicated columns; rows come back ordered by
// the numeric subscriber message identifier so line steps run in submission
// order.
func orderLineStatusQuery(correlationID string) string {
	return fmt.Sprintf(
		`SELECT M.MESSAGE_STATUS, `+
			`EXTRACTVALUE(XMLTYPE(M.MESSAGE_DATA), '//*[local-name()="OGWOrderLineId"]') AS ORDER_LINE_ID, `+
			`EXTRACTVALUE(XMLTYPE(M.MESSAGE_DATA), '//*[local-name()="ErrorCode"]') AS ERROR_CODE `+
			`FROM set_order_status_req_handler M `+
			`WHERE TRIM(M.CDM_TXID) = TRIM('%s') `+
			`ORDER BY TO_NUMBER(M.SUBSCRIBE_MESSAGE_ID)`,
		quoteLiteral(correlationID),
	)
}
