package failoverdb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/darasahq/darasa/core/attendance"
	failoverdb "github.com/darasahq/darasa/storage/database/failover"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

var errDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// brokenAttendanceRepo fails every call the way a dead connection would.
type brokenAttendanceRepo struct{}

func (brokenAttendanceRepo) CreateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	return attendance.Entry{}, errDown
}
func (brokenAttendanceRepo) GetEntryByID(ctx context.Context, id string) (attendance.Entry, error) {
	return attendance.Entry{}, errDown
}
func (brokenAttendanceRepo) GetEntryByKey(ctx context.Context, date, className, subject string) (attendance.Entry, error) {
	return attendance.Entry{}, errDown
}
func (brokenAttendanceRepo) FilterEntries(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Entry, error) {
	return nil, errDown
}
func (brokenAttendanceRepo) UpdateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	return attendance.Entry{}, errDown
}
func (brokenAttendanceRepo) DeleteEntryByID(ctx context.Context, id string) error {
	return errDown
}

// domainErrAttendanceRepo returns business errors that must pass through untouched.
type domainErrAttendanceRepo struct {
	brokenAttendanceRepo
}

func (domainErrAttendanceRepo) CreateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	return attendance.Entry{}, attendance.ErrEntryExists
}
func (domainErrAttendanceRepo) GetEntryByID(ctx context.Context, id string) (attendance.Entry, error) {
	return attendance.Entry{}, attendance.ErrNotFound
}
func (domainErrAttendanceRepo) UpdateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	return attendance.Entry{}, attendance.ErrEntryExists
}

type spyLogger struct {
	errCount int
}

func (l *spyLogger) Enable(bool)                                 {}
func (l *spyLogger) Debug(msg string, args ...interface{})       {}
func (l *spyLogger) Info(msg string, args ...interface{})        {}
func (l *spyLogger) Warn(msg string, args ...interface{})        {}
func (l *spyLogger) Error(msg string, err error, args ...interface{}) { l.errCount++ }
func (l *spyLogger) Fatal(msg string, err error, args ...interface{}) {}

func TestAttendanceRepository_fallsBackPerCall(t *testing.T) {
	logger := &spyLogger{}
	repo := failoverdb.NewAttendanceRepository(
		brokenAttendanceRepo{},
		inmemdb.NewAttendanceRepository(inmemdb.Open()),
		logger,
	)
	ctx := context.Background()

	ent, err := repo.CreateEntry(ctx, attendance.Entry{Date: "2026-03-02", ClassName: "Form 1A", Subject: "Math"})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v, want the in-memory fallback to serve it", err)
	}
	if ent.ID == "" {
		t.Error("fallback CreateEntry() did not assign an id")
	}
	if logger.errCount != 1 {
		t.Errorf("logger.errCount = %d, want 1; every fallback must be logged", logger.errCount)
	}

	// the fallback store holds what was written during the outage
	got, err := repo.GetEntryByID(ctx, ent.ID)
	if err != nil {
		t.Fatalf("GetEntryByID() error = %v", err)
	}
	if got.ID != ent.ID {
		t.Errorf("GetEntryByID() id = %s, want %s", got.ID, ent.ID)
	}

	entries, err := repo.FilterEntries(ctx, nil)
	if err != nil {
		t.Fatalf("FilterEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("len(entries) = %d, want 1", len(entries))
	}

	if err := repo.DeleteEntryByID(ctx, ent.ID); err != nil {
		t.Errorf("DeleteEntryByID() error = %v", err)
	}
}

func TestAttendanceRepository_domainErrorsPassThrough(t *testing.T) {
	logger := &spyLogger{}
	repo := failoverdb.NewAttendanceRepository(
		domainErrAttendanceRepo{},
		inmemdb.NewAttendanceRepository(inmemdb.Open()),
		logger,
	)
	ctx := context.Background()

	if _, err := repo.CreateEntry(ctx, attendance.Entry{}); err != attendance.ErrEntryExists {
		t.Errorf("CreateEntry() error = %v, want ErrEntryExists", err)
	}
	if _, err := repo.GetEntryByID(ctx, "nope"); err != attendance.ErrNotFound {
		t.Errorf("GetEntryByID() error = %v, want ErrNotFound", err)
	}
	// a unique-key violation on update is a conflict, not an outage
	if _, err := repo.UpdateEntry(ctx, attendance.Entry{ID: "e1"}); err != attendance.ErrEntryExists {
		t.Errorf("UpdateEntry() error = %v, want ErrEntryExists", err)
	}
	if logger.errCount != 0 {
		t.Errorf("logger.errCount = %d, want 0; domain errors are not store trouble", logger.errCount)
	}
}

func TestAttendanceRepository_healthyDurableWins(t *testing.T) {
	logger := &spyLogger{}
	durable := inmemdb.NewAttendanceRepository(inmemdb.Open())
	mem := inmemdb.NewAttendanceRepository(inmemdb.Open())
	repo := failoverdb.NewAttendanceRepository(durable, mem, logger)
	ctx := context.Background()

	ent, err := repo.CreateEntry(ctx, attendance.Entry{Date: "2026-03-02", ClassName: "Form 1A", Subject: "Math"})
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if _, err := durable.GetEntryByID(ctx, ent.ID); err != nil {
		t.Errorf("durable.GetEntryByID() error = %v, want the write in the durable store", err)
	}
	if _, err := mem.GetEntryByID(ctx, ent.ID); err != attendance.ErrNotFound {
		t.Errorf("mem.GetEntryByID() error = %v; a healthy durable store must not shadow-write", err)
	}
	if logger.errCount != 0 {
		t.Errorf("logger.errCount = %d, want 0", logger.errCount)
	}
}
