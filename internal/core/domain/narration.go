package domain

import "time"

// Classification is the outwardly visible reason a single attempt failed
type Classification string

const (
	ClassUnauthorized  Classification = "unauthorized"
	ClassRateLimited   Classification = "rate_limited_or_quota_exhausted"
	ClassProviderError Classification = "provider_error"
	ClassEmptyResponse Classification = "empty_response"
	ClassTimeout       Classification = "timeout"
	ClassNetworkError  Classification = "network_error"
	ClassUnclassified  Classification = ""
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// AllClassifications lists every failure class in reporting order
var AllClassifications = []Classification{
	ClassUnauthorized,
	ClassRateLimited,
	ClassProviderError,
	ClassEmptyResponse,
	ClassTimeout,
	ClassNetworkError,
}

// ChatRequest is the fixed system/user pair plus sampling parameters sent
// for one narration. Built per call, never stored.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// AttemptRequest addresses one ChatRequest to one candidate model
type AttemptRequest struct {
	Model      string
	Credential string
	Chat       ChatRequest
}

// AttemptOutcome is the tagged result of one transport attempt: Failure is
// nil on success, Text is empty on failure.
type AttemptOutcome struct {
	Failure *AttemptError
	Model   string
	Text    string
	Latency time.Duration
}

func (o AttemptOutcome) Succeeded() bool {
	return o.Failure == nil
}

func (o AttemptOutcome) Classification() Classification {
	if o.Failure == nil {
		return ClassUnclassified
	}
	return o.Failure.Classification
}

// NarrationResult is what a narrate call hands back to its caller. Model is
// empty when OK is false and Text then carries the diagnostic.
type NarrationResult struct {
	Model    string
	Text     string
	Attempts int
	Latency  time.Duration
	OK       bool
}
