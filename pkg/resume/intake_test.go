package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeDefaults(t *testing.T) {
	res, err := Intake(Upload{FileName: "cv.pdf", ContentType: "application/pdf", Size: 2048}, 0, "", "")
	require.NoError(t, err)

	assert.Equal(t, "cv.pdf", res.Data.FileName)
	assert.Equal(t, []WorkExperience{{Title: "Software Developer", Company: "Tech Company", Duration: "2+ years"}}, res.Data.WorkExperience)
	assert.Equal(t, []string{"JavaScript", "React", "Node.js"}, res.Data.TechnicalSkills)
	assert.Empty(t, res.Data.Projects)
	assert.Empty(t, res.Data.Certifications)
	assert.Equal(t, "JavaScript, React, Node.js", res.Skills)
}

func TestIntakeUsesProfile(t *testing.T) {
	res, err := Intake(Upload{FileName: "/tmp/uploads/Resume.PDF", Size: 10}, 0, " Data Engineer ", "Go, , SQL ,Kafka")
	require.NoError(t, err)

	assert.Equal(t, "Resume.PDF", res.Data.FileName)
	assert.Equal(t, "Data Engineer", res.Data.WorkExperience[0].Title)
	assert.Equal(t, []string{"Go", "SQL", "Kafka"}, res.Data.TechnicalSkills)
	assert.Equal(t, "Go, , SQL ,Kafka", res.Skills)
}

func TestIntakeRejects(t *testing.T) {
	_, err := Intake(Upload{FileName: "cv.docx", ContentType: "application/msword", Size: 10}, 0, "", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.EqualError(t, err, "please upload a PDF file only")

	_, err = Intake(Upload{FileName: "cv.pdf", Size: 0}, 0, "", "")
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = Intake(Upload{FileName: "cv.pdf", Size: 101}, 100, "", "")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = Intake(Upload{FileName: "cv.pdf", Size: DefaultMaxBytes}, 0, "", "")
	assert.NoError(t, err)
}
