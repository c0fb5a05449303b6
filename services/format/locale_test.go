package formatsvc

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
)

func TestLocaleFormatter_FormatRecordInfo(t *testing.T) {
	fmtr := NewLocaleFormatter(&core.Config{Locale: "en"})
	recordedAt := time.Date(2024, 1, 3, 16, 5, 0, 0, time.UTC)

	tests := []struct {
		name     string
		person   activity.Person
		wantName string
	}{
		{
			name:     "staff name is inverted",
			person:   activity.Person{ID: uuid.New(), FirstName: "Neema", LastName: "Othieno", Role: activity.RoleStaff},
			wantName: "Othieno, Neema",
		},
		{
			name:     "parent name is tagged",
			person:   activity.Person{ID: uuid.New(), FirstName: "Josué", LastName: "Kazadi", Role: activity.RoleParent},
			wantName: "Josué Kazadi (parent)",
		},
		{
			name:     "student name is tagged",
			person:   activity.Person{ID: uuid.New(), FirstName: "Amani", LastName: "Kazadi", Role: activity.RoleStudent},
			wantName: "Amani Kazadi (student)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := fmtr.FormatRecordInfo(recordedAt, tt.person)
			if !strings.Contains(info, tt.wantName) {
				t.Errorf("info = %q, want it to contain %q", info, tt.wantName)
			}
			if !strings.Contains(info, "January") {
				t.Errorf("info = %q, want a long en date", info)
			}
		})
	}
}
