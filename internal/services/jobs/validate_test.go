package jobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

func validInput() entity.JobInput {
	return entity.JobInput{
		Position: "Backend Engineer",
		Company:  "Acme",
		Location: "Lisbon",
		Status:   "pending",
		Mode:     "full-time",
	}
}

func TestValidate_Canonicalises(t *testing.T) {
	in := entity.JobInput{
		Position: "  Backend Engineer ",
		Company:  "Acme",
		Location: "Lisbon",
		Status:   "Pending",
		Mode:     "Full Time",
	}

	fields, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, entity.JobFields{
		Position: "Backend Engineer",
		Company:  "Acme",
		Location: "Lisbon",
		Status:   constants.JobStatusPending,
		Mode:     constants.JobModeFullTime,
	}, fields)
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*entity.JobInput)
		message string
	}{
		{"short position", func(in *entity.JobInput) { in.Position = "a" }, "position must be at least two characters long"},
		{"padded position", func(in *entity.JobInput) { in.Position = " a " }, "position must be at least two characters long"},
		{"empty company", func(in *entity.JobInput) { in.Company = "" }, "company must be at least two characters long"},
		{"short location", func(in *entity.JobInput) { in.Location = "X" }, "location must be at least two characters long"},
		{"long company", func(in *entity.JobInput) { in.Company = strings.Repeat("a", 256) }, "company must be at most 255 characters long"},
		{"unknown status", func(in *entity.JobInput) { in.Status = "accepted" }, "status must be one of pending, interview, declined"},
		{"unknown mode", func(in *entity.JobInput) { in.Mode = "contract" }, "mode must be one of full-time, part-time, internship"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			fields, err := Validate(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tc.message)
			assert.Equal(t, entity.JobFields{}, fields)
		})
	}
}

func TestValidate_LengthBoundsCountRunes(t *testing.T) {
	in := validInput()
	in.Position = strings.Repeat("é", 255)
	fields, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, in.Position, fields.Position)

	in.Position += "é"
	_, err = Validate(in)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	_, err := Validate(entity.JobInput{})
	require.Error(t, err)
	for _, field := range []string{"position", "company", "location", "status", "mode"} {
		assert.Contains(t, err.Error(), field+": ")
	}
}
