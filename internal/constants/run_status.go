package constants

// Provision run statuses
const (
	RunStatusSuccess  = "success"
	RunStatusFailed   = "failed"
	RunStatusConflict = "conflict"
	RunStatusSkipped  = "skipped"
)

// Command names, used as history and metric labels
const (
	CommandProvision = "provision"
	CommandVerify    = "verify"
	CommandSmoke     = "smoke"
	CommandSeed      = "seed"
	CommandPurge     = "purge"
	CommandDrop      = "drop"
)
