package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db.attendance}
}

// copyEntry detaches the stored entry so callers can never mutate the table
// through a shared record slice.
func copyEntry(ent *attendance.Entry) attendance.Entry {
	cp := *ent
	if ent.Records != nil {
		cp.Records = make(attendance.RecordList, len(ent.Records))
		copy(cp.Records, ent.Records)
	}
	return cp
}

func (repo *attendanceRepository) query() []attendance.Entry {
	entries := make([]attendance.Entry, 0, len(repo.db.table))
	for _, ent := range repo.db.table {
		entries = append(entries, copyEntry(ent))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.Before(entries[j].CreatedAt) })
	return entries
}

func (repo *attendanceRepository) CreateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, stored := range repo.db.table {
		if stored.Date == ent.Date && stored.ClassName == ent.ClassName && stored.Subject == ent.Subject {
			return attendance.Entry{}, attendance.ErrEntryExists
		}
	}

	ent.ID = uuid.New().String()
	stored := copyEntry(&ent)
	repo.db.table[ent.ID] = &stored
	return ent, nil
}

func (repo *attendanceRepository) GetEntryByID(ctx context.Context, id string) (attendance.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ent, ok := repo.db.table[id]; ok {
		return copyEntry(ent), nil
	}
	return attendance.Entry{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) GetEntryByKey(ctx context.Context, date, className, subject string) (attendance.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, ent := range repo.db.table {
		if ent.Date == date && ent.ClassName == className && ent.Subject == subject {
			return copyEntry(ent), nil
		}
	}
	return attendance.Entry{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) FilterEntries(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := repo.query()
	if filter == nil || filter.IsEmpty() {
		return entries, nil
	}
	matched := make([]attendance.Entry, 0, len(entries))
	for _, ent := range entries {
		if filter.Matches(ent) {
			matched = append(matched, ent)
		}
	}
	return matched, nil
}

func (repo *attendanceRepository) UpdateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[ent.ID]; !ok {
		return attendance.Entry{}, attendance.ErrNotFound
	}
	// an update may move the entry onto another register's (date, class, subject) key
	for id, stored := range repo.db.table {
		if id != ent.ID && stored.Date == ent.Date && stored.ClassName == ent.ClassName && stored.Subject == ent.Subject {
			return attendance.Entry{}, attendance.ErrEntryExists
		}
	}
	stored := copyEntry(&ent)
	repo.db.table[ent.ID] = &stored
	return ent, nil
}

func (repo *attendanceRepository) DeleteEntryByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return attendance.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
