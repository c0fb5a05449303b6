package dummydb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mawingu/darasa/core/activity"
)

// DB is an in-memory store used in tests and local development.
type DB struct {
	sync.RWMutex

	activities map[uuid.UUID]activity.Activity
	terms      map[uuid.UUID]activity.Term
	records    map[uuid.UUID]map[string]activity.AttendanceRecord // activity ID -> date -> record
	roster     map[uuid.UUID][]activity.Student
}

func Open() *DB {
	return &DB{
		activities: make(map[uuid.UUID]activity.Activity),
		terms:      make(map[uuid.UUID]activity.Term),
		records:    make(map[uuid.UUID]map[string]activity.AttendanceRecord),
		roster:     make(map[uuid.UUID][]activity.Student),
	}
}

// Reset drops all stored data.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()

	db.activities = make(map[uuid.UUID]activity.Activity)
	db.terms = make(map[uuid.UUID]activity.Term)
	db.records = make(map[uuid.UUID]map[string]activity.AttendanceRecord)
	db.roster = make(map[uuid.UUID][]activity.Student)
}

// Seeding helpers

func (db *DB) AddActivity(act activity.Activity) activity.Activity {
	db.Lock()
	defer db.Unlock()

	if act.ID == uuid.Nil {
		act.ID = uuid.New()
	}
	db.activities[act.ID] = act
	return act
}

func (db *DB) AddTerm(term activity.Term) activity.Term {
	db.Lock()
	defer db.Unlock()

	if term.ID == uuid.Nil {
		term.ID = uuid.New()
	}
	db.terms[term.ID] = term
	return term
}

func (db *DB) Enroll(activityID uuid.UUID, students ...activity.Student) {
	db.Lock()
	defer db.Unlock()

	db.roster[activityID] = append(db.roster[activityID], students...)
}
