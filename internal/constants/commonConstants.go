package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusSuccess APIStatus = "success"
	APIStatusError   APIStatus = "error"

	CachePrefixSchemaVerify CachePrefix = "SCHEMA_VERIFY_"
)
