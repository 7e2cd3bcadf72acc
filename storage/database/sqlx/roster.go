package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/roster"
)

type rosterRepository struct {
	exec core.DBExecutor
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(exec core.DBExecutor) *rosterRepository {
	return &rosterRepository{exec: exec}
}

func (repo rosterRepository) CreateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO student (id, name, email, class_name, created_at) VALUES ($1, $2, $3, $4, $5)`,
		std.ID, std.Name, std.Email, std.ClassName, std.CreatedAt.UTC(),
	)
	if err != nil {
		return roster.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo rosterRepository) GetStudentByID(ctx context.Context, id string) (roster.Student, error) {
	var std roster.Student
	err := repo.exec.GetContext(ctx, &std,
		`SELECT id, name, email, class_name AS classname, created_at AS createdat FROM student WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return roster.Student{}, roster.ErrStudentNotFound
		}
		return roster.Student{}, errors.Wrap(err, "getting student by id")
	}
	return std, nil
}

func (repo rosterRepository) QueryAllStudents(ctx context.Context) ([]roster.Student, error) {
	var students []roster.Student
	err := repo.exec.SelectContext(ctx, &students,
		`SELECT id, name, email, class_name AS classname, created_at AS createdat FROM student ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo rosterRepository) FilterStudentsByClass(ctx context.Context, className string) ([]roster.Student, error) {
	var students []roster.Student
	err := repo.exec.SelectContext(ctx, &students,
		`SELECT id, name, email, class_name AS classname, created_at AS createdat
		 FROM student WHERE class_name = $1 ORDER BY name`, className)
	if err != nil {
		return nil, errors.Wrap(err, "filtering students by class")
	}
	return students, nil
}

func (repo rosterRepository) CreateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	tch.ID = uuid.New().String()
	_, err := repo.exec.ExecContext(ctx,
		`INSERT INTO teacher (id, name, email, subject, created_at) VALUES ($1, $2, $3, $4, $5)`,
		tch.ID, tch.Name, tch.Email, tch.Subject, tch.CreatedAt.UTC(),
	)
	if err != nil {
		return roster.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo rosterRepository) GetTeacherByID(ctx context.Context, id string) (roster.Teacher, error) {
	var tch roster.Teacher
	err := repo.exec.GetContext(ctx, &tch,
		`SELECT id, name, email, subject, created_at AS createdat FROM teacher WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return roster.Teacher{}, roster.ErrTeacherNotFound
		}
		return roster.Teacher{}, errors.Wrap(err, "getting teacher by id")
	}
	return tch, nil
}

func (repo rosterRepository) QueryAllTeachers(ctx context.Context) ([]roster.Teacher, error) {
	var teachers []roster.Teacher
	err := repo.exec.SelectContext(ctx, &teachers,
		`SELECT id, name, email, subject, created_at AS createdat FROM teacher ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}
