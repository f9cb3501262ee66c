package resume

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/artem13815/interview/pkg/nlp"
)

// DefaultMaxBytes ограничивает размер загружаемого файла.
const DefaultMaxBytes int64 = 15 << 20

const defaultPosition = "Software Developer"

var defaultSkills = []string{"JavaScript", "React", "Node.js"}

var (
	ErrUnsupportedFormat = errors.New("please upload a PDF file only")
	ErrEmptyFile         = errors.New("uploaded file is empty")
	ErrTooLarge          = errors.New("uploaded file is too large")
)

// WorkExperience — одна позиция в опыте кандидата.
type WorkExperience struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// Data — данные резюме, которые мастер настройки передаёт в интервью.
type Data struct {
	FileName        string           `json:"fileName"`
	WorkExperience  []WorkExperience `json:"workExperience"`
	TechnicalSkills []string         `json:"technicalSkills"`
	Projects        []string         `json:"projects"`
	Certifications  []string         `json:"certifications"`
}

// Upload describes the file received by the wizard.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
}

// Result is the intake outcome; Skills is the profile skills line after the
// upload (the user's own line wins).
type Result struct {
	Data   Data   `json:"resumeData"`
	Skills string `json:"skills"`
}

// Intake validates the upload and returns the simulated resume data. The file
// content is not parsed.
func Intake(u Upload, maxBytes int64, position, skills string) (Result, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if !isPDF(u) {
		return Result{}, ErrUnsupportedFormat
	}
	if u.Size <= 0 {
		return Result{}, ErrEmptyFile
	}
	if u.Size > maxBytes {
		return Result{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxBytes)
	}

	position = strings.TrimSpace(position)
	if position == "" {
		position = defaultPosition
	}
	parsedSkills := nlp.SplitList(skills)
	if len(parsedSkills) == 0 {
		parsedSkills = append([]string(nil), defaultSkills...)
	}

	d := Data{
		FileName:        filepath.Base(u.FileName),
		WorkExperience:  []WorkExperience{{Title: position, Company: "Tech Company", Duration: "2+ years"}},
		TechnicalSkills: parsedSkills,
		Projects:        []string{},
		Certifications:  []string{},
	}
	line := strings.TrimSpace(skills)
	if line == "" {
		line = strings.Join(d.TechnicalSkills, ", ")
	}
	return Result{Data: d, Skills: line}, nil
}

func isPDF(u Upload) bool {
	if strings.EqualFold(strings.TrimSpace(u.ContentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(u.FileName), ".pdf")
}
