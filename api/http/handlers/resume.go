package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/interview/api/http/presenter"
	"github.com/artem13815/interview/pkg/resume"
)

type ResumeHandler struct {
	// Limit uploaded file size (bytes)
	maxBytes int64
}

func NewResumeHandler(maxBytes int64) *ResumeHandler {
	if maxBytes <= 0 {
		maxBytes = resume.DefaultMaxBytes
	}
	return &ResumeHandler{maxBytes: maxBytes}
}

// Upload принимает резюме (только PDF) для мастера настройки и возвращает
// данные резюме для конфигурации интервью. Содержимое файла не разбирается.
// @Summary Загрузить резюме
// @Tags    Резюме
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Файл резюме (PDF)"
// @Param   position formData string false "Позиция из мастера"
// @Param   skills formData string false "Навыки через запятую"
// @Security BearerAuth
// @Success 200 {object} resume.Result
// @Failure 400 {object} presenter.ErrorResponse "Ошибка валидации файла"
// @Failure 413 {object} presenter.ErrorResponse "Файл слишком большой"
// @Router  /resume [post]
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf)")
	}
	res, err := resume.Intake(resume.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}, h.maxBytes, c.FormValue("position"), c.FormValue("skills"))
	if err != nil {
		return fail(c, err)
	}
	return presenter.JSON(c, http.StatusOK, res)
}
