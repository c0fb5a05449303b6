package activity

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mawingu/darasa/core"
)

// NewAttendance is the payload for capturing attendance on one date.
type NewAttendance struct {
	ActivityID        uuid.UUID   `json:"-"`
	Date              string      `json:"date" validate:"required,dateonly"`
	PresentStudentIDs []uuid.UUID `json:"present_student_ids"`
	RecordedBy        Person      `json:"-"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.Date = core.CleanString(na.Date)
	return validate.Struct(na)
}
