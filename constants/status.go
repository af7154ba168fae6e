package constants

// RunStatus is the outcome recorded for one processed document.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusOK       RunStatus = "OK"        // text recognised and fields extracted
	RunStatusNoText   RunStatus = "NO_TEXT"   // document readable but nothing recognised
	RunStatusNotFound RunStatus = "NOT_FOUND" // path missing
	RunStatusFailed   RunStatus = "FAILED"    // acquisition or unexpected failure
)
