package exitcodes

// Exit codes for the alertrun launcher.
// These codes form the operational contract with cron and operators.
// Any other value is the entry point's own exit code, relayed unchanged.
const (
	Success      = 0 // entry point ran and reported success
	Precondition = 1 // environment or precondition failure, entry point outcome unknown
)
