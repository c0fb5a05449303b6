package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
)

const uniqueViolation = "23505"

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *sqlx.DB) activity.Repository {
	return &activityRepository{db: db}
}

type (
	activityRow struct {
		ID           uuid.UUID `db:"id"`
		Name         string    `db:"name"`
		DateBasis    string    `db:"date_basis"`
		ProgramStart null.Time `db:"program_start"`
		ProgramEnd   null.Time `db:"program_end"`
		CreatedAt    time.Time `db:"created_at"`
		UpdatedAt    time.Time `db:"updated_at"`
	}

	timeSlotRow struct {
		ID         uuid.UUID   `db:"id"`
		ActivityID uuid.UUID   `db:"activity_id"`
		Weekday    int         `db:"weekday"`
		StartsAt   null.String `db:"starts_at"`
		EndsAt     null.String `db:"ends_at"`
	}

	termRow struct {
		ID       uuid.UUID `db:"id"`
		StartsOn time.Time `db:"starts_on"`
		EndsOn   time.Time `db:"ends_on"`
	}

	recordRow struct {
		ID            uuid.UUID `db:"id"`
		ActivityID    uuid.UUID `db:"activity_id"`
		Date          time.Time `db:"date"`
		RecordedAt    time.Time `db:"recorded_at"`
		RecorderID    uuid.UUID `db:"recorded_by_id"`
		RecorderFirst string    `db:"recorded_by_first_name"`
		RecorderLast  string    `db:"recorded_by_last_name"`
		RecorderRole  int       `db:"recorded_by_role"`
	}

	markRow struct {
		RecordID  uuid.UUID `db:"record_id"`
		StudentID uuid.UUID `db:"student_id"`
	}

	studentRow struct {
		ID        uuid.UUID `db:"id"`
		FirstName string    `db:"first_name"`
		LastName  string    `db:"last_name"`
	}
)

func (row activityRow) toActivity() activity.Activity {
	act := activity.Activity{
		ID:        row.ID,
		Name:      row.Name,
		DateBasis: activity.DateBasis(row.DateBasis),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.ProgramStart.Valid {
		act.ProgramStart = row.ProgramStart.Time
	}
	if row.ProgramEnd.Valid {
		act.ProgramEnd = row.ProgramEnd.Time
	}
	return act
}

func (repo *activityRepository) QueryAllActivities(ctx context.Context) ([]activity.Activity, error) {
	ord := core.DBOrdering{Field: "name", Ascending: true}

	var rows []activityRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM activity ORDER BY `+ord.String()); err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	acts := make([]activity.Activity, 0, len(rows))
	for _, row := range rows {
		acts = append(acts, row.toActivity())
	}
	return acts, nil
}

func (repo *activityRepository) GetActivityByID(ctx context.Context, id uuid.UUID) (activity.Activity, error) {
	var row activityRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM activity WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return activity.Activity{}, activity.ErrNotFound
		}
		return activity.Activity{}, errors.Wrap(err, "getting activity")
	}
	act := row.toActivity()

	var slotRows []timeSlotRow
	if err := repo.db.SelectContext(ctx, &slotRows,
		`SELECT * FROM time_slot WHERE activity_id = $1 ORDER BY weekday`, id); err != nil {
		return activity.Activity{}, errors.Wrap(err, "querying time slots")
	}
	act.Slots = make([]activity.TimeSlot, 0, len(slotRows))
	for _, row := range slotRows {
		act.Slots = append(act.Slots, activity.TimeSlot{
			ID:         row.ID,
			ActivityID: row.ActivityID,
			Weekday:    time.Weekday(row.Weekday),
			StartsAt:   row.StartsAt.String,
			EndsAt:     row.EndsAt.String,
		})
	}

	if err := repo.db.SelectContext(ctx, &act.TermIDs,
		`SELECT term_id FROM activity_term WHERE activity_id = $1`, id); err != nil {
		return activity.Activity{}, errors.Wrap(err, "querying term links")
	}
	return act, nil
}

func (repo *activityRepository) GetTermWindows(ctx context.Context, termIDs ...uuid.UUID) (map[uuid.UUID]activity.Timespan, error) {
	if len(termIDs) == 0 {
		return map[uuid.UUID]activity.Timespan{}, nil
	}
	ids := make([]string, 0, len(termIDs))
	for _, id := range termIDs {
		ids = append(ids, id.String())
	}

	var rows []termRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, starts_on, ends_on FROM term WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, errors.Wrap(err, "querying terms")
	}
	windows := make(map[uuid.UUID]activity.Timespan, len(rows))
	for _, row := range rows {
		windows[row.ID] = activity.Timespan{
			Start: activity.DateOf(row.StartsOn),
			End:   activity.DateOf(row.EndsOn).Add(24*time.Hour - time.Nanosecond),
		}
	}
	return windows, nil
}

func (repo *activityRepository) GetAttendanceRecords(ctx context.Context, activityID uuid.UUID) (map[string]activity.AttendanceRecord, error) {
	var recRows []recordRow
	if err := repo.db.SelectContext(ctx, &recRows,
		`SELECT * FROM attendance_record WHERE activity_id = $1`, activityID); err != nil {
		return nil, errors.Wrap(err, "querying attendance records")
	}

	var markRows []markRow
	if err := repo.db.SelectContext(ctx, &markRows,
		`SELECT m.record_id, m.student_id
		 FROM attendance_mark m
		 JOIN attendance_record r ON r.id = m.record_id
		 WHERE r.activity_id = $1`, activityID); err != nil {
		return nil, errors.Wrap(err, "querying attendance marks")
	}
	presenceByRecord := make(map[uuid.UUID]map[uuid.UUID]bool, len(recRows))
	for _, row := range markRows {
		presence, ok := presenceByRecord[row.RecordID]
		if !ok {
			presence = make(map[uuid.UUID]bool)
			presenceByRecord[row.RecordID] = presence
		}
		presence[row.StudentID] = true
	}

	records := make(map[string]activity.AttendanceRecord, len(recRows))
	for _, row := range recRows {
		date := row.Date.UTC().Format(activity.DateLayout)
		presence := presenceByRecord[row.ID]
		if presence == nil {
			presence = map[uuid.UUID]bool{}
		}
		records[date] = activity.AttendanceRecord{
			ID:         row.ID,
			ActivityID: row.ActivityID,
			Date:       date,
			RecordedAt: row.RecordedAt,
			RecordedBy: activity.Person{
				ID:        row.RecorderID,
				FirstName: row.RecorderFirst,
				LastName:  row.RecorderLast,
				Role:      activity.PersonRole(row.RecorderRole),
			},
			Presence: presence,
		}
	}
	return records, nil
}

func (repo *activityRepository) GetRoster(ctx context.Context, activityID uuid.UUID) ([]activity.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT s.id, s.first_name, s.last_name
		 FROM student s
		 JOIN enrollment e ON e.student_id = s.id
		 WHERE e.activity_id = $1
		 ORDER BY s.last_name, s.first_name`, activityID); err != nil {
		return nil, errors.Wrap(err, "querying roster")
	}
	students := make([]activity.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, activity.Student{ID: row.ID, FirstName: row.FirstName, LastName: row.LastName})
	}
	return students, nil
}

func (repo *activityRepository) CreateAttendanceRecord(ctx context.Context, rec activity.AttendanceRecord) (activity.AttendanceRecord, error) {
	date, err := activity.ParseDate(rec.Date)
	if err != nil {
		return activity.AttendanceRecord{}, errors.Wrap(err, "parsing record date")
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return activity.AttendanceRecord{}, errors.Wrap(err, "beginning tx")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attendance_record
		 (id, activity_id, date, recorded_at, recorded_by_id, recorded_by_first_name, recorded_by_last_name, recorded_by_role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.ActivityID, date, rec.RecordedAt,
		rec.RecordedBy.ID, rec.RecordedBy.FirstName, rec.RecordedBy.LastName, int(rec.RecordedBy.Role),
	)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return activity.AttendanceRecord{}, activity.ErrAttendanceExists
		}
		return activity.AttendanceRecord{}, errors.Wrap(err, "inserting attendance record")
	}

	for studentID := range rec.Presence {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO attendance_mark (record_id, student_id) VALUES ($1, $2)`,
			rec.ID, studentID); err != nil {
			return activity.AttendanceRecord{}, errors.Wrap(err, "inserting attendance mark")
		}
	}

	if err = tx.Commit(); err != nil {
		return activity.AttendanceRecord{}, errors.Wrap(err, "committing tx")
	}
	return rec, nil
}
