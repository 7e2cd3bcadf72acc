package attendance

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/darasahq/darasa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("attendance entry not found")
	ErrEntryExists = errors.New("an attendance entry for this date, class and subject already exists")
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, ent Entry) (Entry, error)
		GetEntryByID(ctx context.Context, id string) (Entry, error)
		// GetEntryByKey looks up the unique entry for a (date, class, subject) key.
		GetEntryByKey(ctx context.Context, date, className, subject string) (Entry, error)
		// FilterEntries applies AND operation on available QueryFilter fields.
		FilterEntries(ctx context.Context, filter *QueryFilter) ([]Entry, error)
		UpdateEntry(ctx context.Context, ent Entry) (Entry, error)
		DeleteEntryByID(ctx context.Context, id string) error
	}

	// Service owns the attendance ledger.
	Service struct {
		repo Repository
		keys core.KeyedMutex
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func entryKey(date, className, subject string) string {
	return date + "|" + className + "|" + subject
}

// Upsert creates the entry for (date, class, subject) or, when the key is
// already taken, replaces its whole record list with the supplied one. The
// replace semantics are deliberate: the register for a key is always the last
// full submission, and resending a subset drops the students left out.
func (svc *Service) Upsert(ctx context.Context, ne NewEntry) (Entry, error) {
	defer svc.keys.Lock(entryKey(ne.Date, ne.ClassName, ne.Subject))()

	now := time.Now().UTC()

	ent, err := svc.repo.GetEntryByKey(ctx, ne.Date, ne.ClassName, ne.Subject)
	switch {
	case err == nil:
		ent.TeacherID = ne.TeacherID
		ent.TeacherName = ne.TeacherName
		ent.Records = ne.records()
		ent.UpdatedAt = now
		return svc.repo.UpdateEntry(ctx, ent)
	case errors.Is(err, ErrNotFound):
		ent = Entry{
			Date:        ne.Date,
			ClassName:   ne.ClassName,
			Subject:     ne.Subject,
			TeacherID:   ne.TeacherID,
			TeacherName: ne.TeacherName,
			Records:     ne.records(),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return svc.repo.CreateEntry(ctx, ent)
	default:
		return Entry{}, err
	}
}

func (svc *Service) GetByID(ctx context.Context, id string) (Entry, error) {
	return svc.repo.GetEntryByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter) ([]Entry, error) {
	return svc.repo.FilterEntries(ctx, filter)
}

// Update shallow-merges the set fields of `ue` over the stored entry.
func (svc *Service) Update(ctx context.Context, id string, ue UpdateEntry) (Entry, error) {
	ent, err := svc.repo.GetEntryByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	// the first read only locates the key; the merge runs on a fresh read
	// taken under the key lock, same as Upsert
	defer svc.keys.Lock(entryKey(ent.Date, ent.ClassName, ent.Subject))()

	ent, err = svc.repo.GetEntryByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}

	if ue.Date != "" {
		ent.Date = ue.Date
	}
	if ue.ClassName != "" {
		ent.ClassName = ue.ClassName
	}
	if ue.Subject != "" {
		ent.Subject = ue.Subject
	}
	if ue.TeacherID != "" {
		ent.TeacherID = ue.TeacherID
	}
	if ue.TeacherName != "" {
		ent.TeacherName = ue.TeacherName
	}
	if ue.Records != nil {
		ne := NewEntry{Records: ue.Records}
		ent.Records = ne.records()
	}
	ent.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateEntry(ctx, ent)
}

// Delete removes the entry and returns it for echoing back to the caller.
func (svc *Service) Delete(ctx context.Context, id string) (Entry, error) {
	ent, err := svc.repo.GetEntryByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if err := svc.repo.DeleteEntryByID(ctx, id); err != nil {
		return Entry{}, err
	}
	return ent, nil
}

// DailyStats tallies every record of the day, whichever shape it is stored in.
func (svc *Service) DailyStats(ctx context.Context, date string) (DailyStats, error) {
	entries, err := svc.repo.FilterEntries(ctx, &QueryFilter{Date: date})
	if err != nil {
		return DailyStats{}, err
	}

	stats := DailyStats{Date: date}
	for _, row := range Flatten(entries) {
		switch row.Status {
		case StatusPresent:
			stats.Present++
		case StatusLate:
			stats.Late++
		default:
			stats.Absent++
		}
		stats.Total++
	}
	if stats.Total > 0 {
		stats.Percentage = int(math.Round(float64(stats.Present) / float64(stats.Total) * 100))
	}
	return stats, nil
}

// Flatten reconciles both stored shapes into per-student rows: entries with a
// register emit one row per nested record carrying the parent's date, class,
// subject and teacher; legacy flat entries emit themselves as a single row.
func Flatten(entries []Entry) []FlatRecord {
	rows := make([]FlatRecord, 0, len(entries))
	for _, ent := range entries {
		if len(ent.Records) > 0 {
			for _, rec := range ent.Records {
				rows = append(rows, FlatRecord{
					EntryID:      ent.ID,
					Date:         ent.Date,
					ClassName:    ent.ClassName,
					Subject:      ent.Subject,
					TeacherName:  ent.TeacherName,
					StudentID:    rec.StudentID,
					StudentName:  rec.StudentName,
					Status:       rec.Status,
					Remarks:      rec.Remarks,
					CheckInTime:  rec.CheckInTime,
					CheckOutTime: rec.CheckOutTime,
				})
			}
			continue
		}
		if ent.StudentID == "" {
			continue // an empty register flattens to nothing
		}
		rows = append(rows, FlatRecord{
			EntryID:     ent.ID,
			Date:        ent.Date,
			ClassName:   ent.ClassName,
			Subject:     ent.Subject,
			TeacherName: ent.TeacherName,
			StudentID:   ent.StudentID,
			StudentName: ent.StudentName,
			Status:      ent.Status,
		})
	}
	return rows
}
