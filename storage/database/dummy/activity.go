package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mawingu/darasa/core/activity"
)

type activityRepository struct {
	db *DB
}

var _ activity.Repository = (*activityRepository)(nil) // interface compliance check

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) QueryAllActivities(ctx context.Context) ([]activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	acts := make([]activity.Activity, 0, len(repo.db.activities))
	for _, act := range repo.db.activities {
		acts = append(acts, act)
	}
	sort.Slice(acts, func(i, j int) bool { return acts[i].Name < acts[j].Name })
	return acts, nil
}

func (repo *activityRepository) GetActivityByID(ctx context.Context, id uuid.UUID) (activity.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	act, ok := repo.db.activities[id]
	if !ok {
		return activity.Activity{}, activity.ErrNotFound
	}
	return act, nil
}

func (repo *activityRepository) GetTermWindows(ctx context.Context, termIDs ...uuid.UUID) (map[uuid.UUID]activity.Timespan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	windows := make(map[uuid.UUID]activity.Timespan, len(termIDs))
	for _, id := range termIDs {
		if term, ok := repo.db.terms[id]; ok {
			windows[id] = activity.Timespan{
				Start: activity.DateOf(term.StartsOn),
				End:   activity.DateOf(term.EndsOn).Add(24*time.Hour - time.Nanosecond),
			}
		}
	}
	return windows, nil
}

func (repo *activityRepository) GetAttendanceRecords(ctx context.Context, activityID uuid.UUID) (map[string]activity.AttendanceRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make(map[string]activity.AttendanceRecord, len(repo.db.records[activityID]))
	for date, rec := range repo.db.records[activityID] {
		records[date] = rec
	}
	return records, nil
}

func (repo *activityRepository) GetRoster(ctx context.Context, activityID uuid.UUID) ([]activity.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	roster := append([]activity.Student(nil), repo.db.roster[activityID]...)
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].LastName != roster[j].LastName {
			return roster[i].LastName < roster[j].LastName
		}
		return roster[i].FirstName < roster[j].FirstName
	})
	return roster, nil
}

func (repo *activityRepository) CreateAttendanceRecord(ctx context.Context, rec activity.AttendanceRecord) (activity.AttendanceRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	byDate, ok := repo.db.records[rec.ActivityID]
	if !ok {
		byDate = make(map[string]activity.AttendanceRecord)
		repo.db.records[rec.ActivityID] = byDate
	}
	if _, exists := byDate[rec.Date]; exists {
		return activity.AttendanceRecord{}, activity.ErrAttendanceExists
	}
	byDate[rec.Date] = rec
	return rec, nil
}
