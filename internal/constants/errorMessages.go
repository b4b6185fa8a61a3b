package constants

const (
	MsgHistoryDisabled   = "run history is not configured"
	MsgInvalidLimit      = "limit must be a positive integer"
	MsgListRunsFailed    = "failed to list runs"
	MsgUnexpectedCache   = "unexpected cached value"
	MsgOperatorsDisabled = "Operator endpoints disabled"
	MsgMissingBearer     = "Unauthorized. Missing bearer token"
	MsgInvalidToken      = "Unauthorized. Invalid token"
	MsgTooManyRequests   = "Too many requests"
)
