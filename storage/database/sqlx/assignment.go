package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/assignment"
)

type assignmentRow struct {
	ID             string                    `db:"id"`
	Title          string                    `db:"title"`
	Description    string                    `db:"description"`
	Subject        string                    `db:"subject"`
	TeacherID      string                    `db:"teacher_id"`
	TeacherName    string                    `db:"teacher_name"`
	AssignedTo     string                    `db:"assigned_to"`
	ClassName      string                    `db:"class_name"`
	StudentID      string                    `db:"student_id"`
	DueDate        time.Time                 `db:"due_date"`
	TotalMarks     int                       `db:"total_marks"`
	Status         string                    `db:"status"`
	TotalStudents  int                       `db:"total_students"`
	SubmittedCount int                       `db:"submitted_count"`
	Submissions    assignment.SubmissionList `db:"submissions"`
	CreatedAt      time.Time                 `db:"created_at"`
	UpdatedAt      time.Time                 `db:"updated_at"`
}

type assignmentRepository struct {
	exec core.DBExecutor
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(exec core.DBExecutor) *assignmentRepository {
	return &assignmentRepository{exec: exec}
}

func (repo assignmentRepository) row(a assignment.Assignment) assignmentRow {
	return assignmentRow{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		Subject:        a.Subject,
		TeacherID:      a.TeacherID,
		TeacherName:    a.TeacherName,
		AssignedTo:     a.AssignedTo,
		ClassName:      a.ClassName,
		StudentID:      a.StudentID,
		DueDate:        a.DueDate.UTC(),
		TotalMarks:     a.TotalMarks,
		Status:         a.Status,
		TotalStudents:  a.TotalStudents,
		SubmittedCount: a.SubmittedCount,
		Submissions:    a.Submissions,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func (repo assignmentRepository) unrow(row assignmentRow) assignment.Assignment {
	return assignment.Assignment{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		Subject:        row.Subject,
		TeacherID:      row.TeacherID,
		TeacherName:    row.TeacherName,
		AssignedTo:     row.AssignedTo,
		ClassName:      row.ClassName,
		StudentID:      row.StudentID,
		DueDate:        row.DueDate,
		TotalMarks:     row.TotalMarks,
		Status:         row.Status,
		TotalStudents:  row.TotalStudents,
		SubmittedCount: row.SubmittedCount,
		Submissions:    row.Submissions,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// trapNoRowsErr maps psql "no rows" err to assignment.ErrNotFound
func (repo assignmentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return assignment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const assignmentColumns = "id, title, description, subject, teacher_id, teacher_name, assigned_to, " +
	"class_name, student_id, due_date, total_marks, status, total_students, submitted_count, " +
	"submissions, created_at, updated_at"

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	a.ID = uuid.New().String()
	row := repo.row(a)
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO assignment (`+assignmentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		row.ID, row.Title, row.Description, row.Subject, row.TeacherID, row.TeacherName,
		row.AssignedTo, row.ClassName, row.StudentID, row.DueDate, row.TotalMarks, row.Status,
		row.TotalStudents, row.SubmittedCount, row.Submissions, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var row assignmentRow
	err := repo.exec.GetContext(ctx, &row,
		`SELECT `+assignmentColumns+` FROM assignment WHERE id = $1`, id)
	if err != nil {
		return assignment.Assignment{}, repo.trapNoRowsErr(err, "getting assignment by id")
	}
	return repo.unrow(row), nil
}

func (repo assignmentRepository) FilterAssignments(ctx context.Context, filter *assignment.QueryFilter) ([]assignment.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignment`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.TeacherID != "" {
			args = append(args, filter.TeacherID)
			conds = append(conds, fmt.Sprintf("teacher_id = $%d", len(args)))
		}
		if filter.ClassName != "" {
			args = append(args, filter.ClassName)
			conds = append(conds, fmt.Sprintf("class_name = $%d", len(args)))
		}
		if filter.Status != "" {
			args = append(args, filter.Status)
			conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
		}
		if filter.Subject != "" {
			args = append(args, filter.Subject)
			conds = append(conds, fmt.Sprintf("lower(subject) = lower($%d)", len(args)))
		}
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			n := len(args)
			conds = append(conds, fmt.Sprintf(
				"(title ILIKE $%d OR subject ILIKE $%d OR teacher_name ILIKE $%d OR description ILIKE $%d)",
				n, n, n, n))
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at"

	var rows []assignmentRow
	if err := repo.exec.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, repo.unrow(row))
	}
	return assignments, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	row := repo.row(a)
	res, err := repo.exec.ExecContext(ctx,
		`UPDATE assignment
		 SET title = $2, description = $3, subject = $4, teacher_id = $5, teacher_name = $6,
		     assigned_to = $7, class_name = $8, student_id = $9, due_date = $10, total_marks = $11,
		     status = $12, total_students = $13, submitted_count = $14, submissions = $15, updated_at = $16
		 WHERE id = $1`,
		row.ID, row.Title, row.Description, row.Subject, row.TeacherID, row.TeacherName,
		row.AssignedTo, row.ClassName, row.StudentID, row.DueDate, row.TotalMarks, row.Status,
		row.TotalStudents, row.SubmittedCount, row.Submissions, row.UpdatedAt,
	)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return a, nil
}

func (repo assignmentRepository) DeleteAssignmentByID(ctx context.Context, id string) error {
	res, err := repo.exec.ExecContext(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}
