package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/artem13815/interview/api/http/presenter"
	"github.com/artem13815/interview/pkg/interview"
	"github.com/artem13815/interview/pkg/media"
	"github.com/artem13815/interview/pkg/resume"
	"github.com/artem13815/interview/pkg/security/jwt"
)

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	var validation interview.ErrValidation
	var device *media.DeviceError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, interview.ErrEmptyResponse),
		errors.Is(err, resume.ErrUnsupportedFormat),
		errors.Is(err, resume.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, resume.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, interview.ErrSessionNotFound), errors.Is(err, interview.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrRedirectedToSetup):
		return http.StatusGone
	case errors.Is(err, interview.ErrAnalysisInFlight),
		errors.Is(err, interview.ErrSessionEnded),
		errors.Is(err, interview.ErrSessionNotActive),
		errors.Is(err, interview.ErrSessionClosed),
		errors.Is(err, interview.ErrNoQuestion),
		errors.Is(err, interview.ErrNotEnded),
		errors.Is(err, media.ErrNoStream):
		return http.StatusConflict
	case errors.As(err, &device):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	var device *media.DeviceError
	if errors.As(err, &device) {
		msg = device.Message()
	}
	if status == http.StatusInternalServerError && !retryable(err) {
		msg = "internal error"
	}
	return presenter.Error(c, status, msg)
}

// retryable failures keep their message so the client can offer "try again".
func retryable(err error) bool {
	return errors.Is(err, interview.ErrQuestionUnavailable) || errors.Is(err, interview.ErrAnalysisFailed)
}

func unauthorized(c *fiber.Ctx) error {
	return presenter.Error(c, http.StatusUnauthorized, "unauthorized")
}

func currentUser(c *fiber.Ctx) (uuid.UUID, bool) {
	return jwt.UserID(c)
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}
