package interview

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionEnded        = errors.New("session already ended")
	ErrSessionNotActive    = errors.New("session is not active")
	ErrSessionClosed       = errors.New("session was closed")
	ErrRedirectedToSetup   = errors.New("media was not ready in time, restart from setup")
	ErrAnalysisInFlight    = errors.New("analysis for this question is still running")
	ErrEmptyResponse       = errors.New("please provide a response before submitting")
	ErrNoQuestion          = errors.New("no question loaded for the current slot")
	ErrQuestionUnavailable = errors.New("failed to load question, please try again")
	ErrAnalysisFailed      = errors.New("failed to analyze response, please try again")
	ErrNoResponses         = errors.New("no responses to aggregate")
	ErrNotEnded            = errors.New("session has not ended yet")
)
