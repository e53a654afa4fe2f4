package logging

// Field names shared by every component so log lines can be filtered
// consistently.
const (
	FieldHash          = "hash"
	FieldSender        = "sender"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldMerchant      = "merchant"
	FieldCounterparty  = "counterparty"
	FieldNature        = "nature"
	FieldRule          = "rule"
	FieldConfidence    = "confidence"
	FieldReason        = "reason"
	FieldOperation     = "operation"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldCount         = "count"
	FieldDuration      = "duration_ms"
	FieldSource        = "source"
	FieldLine          = "line"
	FieldAudit         = "audit"
	FieldViolations    = "violations"
	FieldComponent     = "component"
	FieldPath          = "path"
)
