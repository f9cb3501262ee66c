package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/media"
	"github.com/artem13815/interview/pkg/resume"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{interview.ErrValidation("bad"), http.StatusBadRequest},
		{interview.ErrEmptyResponse, http.StatusBadRequest},
		{resume.ErrUnsupportedFormat, http.StatusBadRequest},
		{fmt.Errorf("%w: limit", resume.ErrTooLarge), http.StatusRequestEntityTooLarge},
		{interview.ErrSessionNotFound, http.StatusNotFound},
		{interview.ErrNotFound, http.StatusNotFound},
		{interview.ErrRedirectedToSetup, http.StatusGone},
		{interview.ErrAnalysisInFlight, http.StatusConflict},
		{interview.ErrSessionEnded, http.StatusConflict},
		{interview.ErrSessionClosed, http.StatusConflict},
		{interview.ErrNotEnded, http.StatusConflict},
		{media.ErrNoStream, http.StatusConflict},
		{&media.DeviceError{Name: media.ErrNameNotFound}, http.StatusUnprocessableEntity},
		{fmt.Errorf("load: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{fmt.Errorf("%w: %w", interview.ErrQuestionUnavailable, errors.New("x")), http.StatusInternalServerError},
		{errors.New("disk"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, statusFor(c.err), c.err.Error())
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(fmt.Errorf("%w: %w", interview.ErrAnalysisFailed, errors.New("model"))))
	assert.True(t, retryable(interview.ErrQuestionUnavailable))
	assert.False(t, retryable(errors.New("disk")))
}
