package models

// VerifyRequest is the payload for POST /api/verify.
type VerifyRequest struct {
	// URL is the page whose product table is verified. Required.
	URL string `json:"url"`
}

// Status is the verdict of a verification run.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// FailureKind tells callers why a run failed without parsing Message.
// It is empty on SUCCESS.
type FailureKind string

const (
	KindLaunchFailure     FailureKind = "LAUNCH_FAILURE"
	KindNavigationTimeout FailureKind = "NAVIGATION_TIMEOUT"
	KindNavigationFailure FailureKind = "NAVIGATION_FAILURE"
	KindSelectorTimeout   FailureKind = "SELECTOR_TIMEOUT"
	KindExtractionFailure FailureKind = "EXTRACTION_FAILURE"
	KindEmpty             FailureKind = "EMPTY"
	KindMismatch          FailureKind = "MISMATCH"
)

// VerificationResult is the response for POST /api/verify.
type VerificationResult struct {
	// RunID identifies this run in logs and webhook events.
	RunID string `json:"run_id"`

	// URL is the verified page.
	URL string `json:"url"`

	Status Status      `json:"status"`
	Kind   FailureKind `json:"kind,omitempty"`

	// Message is a human-readable summary. For browser failures it embeds
	// the underlying error text.
	Message string `json:"message"`

	// Extracted holds the rows read from the table, in page order.
	Extracted []Product `json:"extracted"`

	// Expected echoes the expected dataset; only set on MISMATCH.
	Expected []Product `json:"expected,omitempty"`

	// Diff is a readable expected/extracted diff; only set on MISMATCH.
	Diff string `json:"diff,omitempty"`

	Timing VerifyTiming `json:"timing"`
}

// Succeeded reports whether the run's status is SUCCESS.
func (r *VerificationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// VerifyTiming breaks down the time spent in each phase.
type VerifyTiming struct {
	TotalMs      int64 `json:"total_ms"`
	LaunchMs     int64 `json:"launch_ms"`
	NavigationMs int64 `json:"navigation_ms"`
	WaitMs       int64 `json:"wait_ms"`
	ExtractMs    int64 `json:"extract_ms"`
}
