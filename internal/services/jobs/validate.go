package jobs

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

const (
	minTextLength = 2
	// Text columns are VARCHAR(255) on MySQL and Postgres.
	maxTextLength = 255
)

var (
	statusMessage = fmt.Sprintf("status must be one of %s", strings.Join(constants.StatusStrings(), ", "))
	modeMessage   = fmt.Sprintf("mode must be one of %s", strings.Join(constants.ModeStrings(), ", "))
)

// Validate checks a job payload and returns its canonical form.
// Text fields are trimmed before their length is checked; status and mode are
// matched case-insensitively. It performs no I/O.
func Validate(input entity.JobInput) (entity.JobFields, error) {
	fields := entity.JobFields{
		Position: strings.TrimSpace(input.Position),
		Company:  strings.TrimSpace(input.Company),
		Location: strings.TrimSpace(input.Location),
	}
	fields.Status, _ = constants.ParseStatus(input.Status)
	fields.Mode, _ = constants.ParseMode(input.Mode)

	v := common.NewValidator()
	v.Field("position", fields.Position, textRules("position")...).
		Field("company", fields.Company, textRules("company")...).
		Field("location", fields.Location, textRules("location")...).
		Field("status", string(fields.Status), common.WithMessage(common.OneOf(constants.StatusStrings()...), statusMessage)).
		Field("mode", string(fields.Mode), common.WithMessage(common.OneOf(constants.ModeStrings()...), modeMessage))

	if err := common.ValidateAndReturnError(v); err != nil {
		return entity.JobFields{}, err
	}
	return fields, nil
}

func textRules(field string) []common.ValidationRule {
	return []common.ValidationRule{
		common.WithMessage(common.MinLength(minTextLength),
			fmt.Sprintf("%s must be at least two characters long", field)),
		common.WithMessage(common.MaxLength(maxTextLength),
			fmt.Sprintf("%s must be at most %d characters long", field, maxTextLength)),
	}
}
