package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
)

const pqUniqueViolation = "23505"

type attendanceRow struct {
	ID          string                `db:"id"`
	Day         string                `db:"day"`
	ClassName   string                `db:"class_name"`
	Subject     string                `db:"subject"`
	TeacherID   string                `db:"teacher_id"`
	TeacherName string                `db:"teacher_name"`
	Records     attendance.RecordList `db:"records"`
	StudentID   string                `db:"student_id"`
	StudentName string                `db:"student_name"`
	Status      string                `db:"status"`
	CreatedAt   time.Time             `db:"created_at"`
	UpdatedAt   time.Time             `db:"updated_at"`
}

type attendanceRepository struct {
	exec core.DBExecutor
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{exec: exec}
}

func (repo attendanceRepository) row(ent attendance.Entry) attendanceRow {
	return attendanceRow{
		ID:          ent.ID,
		Day:         ent.Date,
		ClassName:   ent.ClassName,
		Subject:     ent.Subject,
		TeacherID:   ent.TeacherID,
		TeacherName: ent.TeacherName,
		Records:     ent.Records,
		StudentID:   ent.StudentID,
		StudentName: ent.StudentName,
		Status:      ent.Status,
		CreatedAt:   ent.CreatedAt.UTC(),
		UpdatedAt:   ent.UpdatedAt.UTC(),
	}
}

func (repo attendanceRepository) unrow(row attendanceRow) attendance.Entry {
	return attendance.Entry{
		ID:          row.ID,
		Date:        row.Day,
		ClassName:   row.ClassName,
		Subject:     row.Subject,
		TeacherID:   row.TeacherID,
		TeacherName: row.TeacherName,
		Records:     row.Records,
		StudentID:   row.StudentID,
		StudentName: row.StudentName,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (repo attendanceRepository) unrowSlice(rows []attendanceRow) []attendance.Entry {
	entries := make([]attendance.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, repo.unrow(row))
	}
	return entries
}

// trapNoRowsErr maps psql "no rows" err to attendance.ErrNotFound
func (repo attendanceRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return attendance.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const attendanceColumns = "id, day, class_name, subject, teacher_id, teacher_name, records, " +
	"student_id, student_name, status, created_at, updated_at"

func (repo attendanceRepository) CreateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	ent.ID = uuid.New().String()
	row := repo.row(ent)
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO attendance_entry (`+attendanceColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		row.ID, row.Day, row.ClassName, row.Subject, row.TeacherID, row.TeacherName,
		row.Records, row.StudentID, row.StudentName, row.Status, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return attendance.Entry{}, attendance.ErrEntryExists
		}
		return attendance.Entry{}, errors.Wrap(err, "inserting attendance entry")
	}
	return ent, nil
}

func (repo attendanceRepository) GetEntryByID(ctx context.Context, id string) (attendance.Entry, error) {
	var row attendanceRow
	err := repo.exec.GetContext(ctx, &row,
		`SELECT `+attendanceColumns+` FROM attendance_entry WHERE id = $1`, id)
	if err != nil {
		return attendance.Entry{}, repo.trapNoRowsErr(err, "getting attendance entry by id")
	}
	return repo.unrow(row), nil
}

func (repo attendanceRepository) GetEntryByKey(ctx context.Context, date, className, subject string) (attendance.Entry, error) {
	var row attendanceRow
	err := repo.exec.GetContext(ctx, &row,
		`SELECT `+attendanceColumns+` FROM attendance_entry
		 WHERE day = $1 AND class_name = $2 AND subject = $3`,
		date, className, subject)
	if err != nil {
		return attendance.Entry{}, repo.trapNoRowsErr(err, "getting attendance entry by key")
	}
	return repo.unrow(row), nil
}

func (repo attendanceRepository) FilterEntries(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Entry, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_entry`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Date != "" {
			args = append(args, filter.Date)
			conds = append(conds, fmt.Sprintf("day = $%d", len(args)))
		}
		if filter.ClassName != "" {
			args = append(args, "%"+filter.ClassName+"%")
			conds = append(conds, fmt.Sprintf("class_name ILIKE $%d", len(args)))
		}
		if filter.StudentID != "" {
			args = append(args, filter.StudentID)
			idArg := len(args)
			args = append(args, fmt.Sprintf(`[{"student_id": %q}]`, filter.StudentID))
			conds = append(conds, fmt.Sprintf("(student_id = $%d OR records @> $%d::jsonb)", idArg, len(args)))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []attendanceRow
	if err := repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendance entries")
	}
	return repo.unrowSlice(rows), nil
}

func (repo attendanceRepository) UpdateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	row := repo.row(ent)
	res, err := repo.exec.ExecContext(ctx,
		`UPDATE attendance_entry
		 SET day = $2, class_name = $3, subject = $4, teacher_id = $5, teacher_name = $6,
		     records = $7, student_id = $8, student_name = $9, status = $10, updated_at = $11
		 WHERE id = $1`,
		row.ID, row.Day, row.ClassName, row.Subject, row.TeacherID, row.TeacherName,
		row.Records, row.StudentID, row.StudentName, row.Status, row.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return attendance.Entry{}, attendance.ErrEntryExists
		}
		return attendance.Entry{}, errors.Wrap(err, "updating attendance entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.Entry{}, attendance.ErrNotFound
	}
	return ent, nil
}

func (repo attendanceRepository) DeleteEntryByID(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM attendance_entry WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting attendance entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return attendance.ErrNotFound
	}
	return nil
}
