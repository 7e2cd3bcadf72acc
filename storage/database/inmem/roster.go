package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/roster"
)

type rosterRepository struct {
	students *studentTable
	teachers *teacherTable
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{students: db.student, teachers: db.teacher}
}

func (repo *rosterRepository) CreateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	std.ID = uuid.New().String()
	repo.students.table[std.ID] = &std
	return std, nil
}

func (repo *rosterRepository) GetStudentByID(ctx context.Context, id string) (roster.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if std, ok := repo.students.table[id]; ok {
		return *std, nil
	}
	return roster.Student{}, roster.ErrStudentNotFound
}

func (repo *rosterRepository) QueryAllStudents(ctx context.Context) ([]roster.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()
	return repo.queryStudents(func(roster.Student) bool { return true }), nil
}

func (repo *rosterRepository) FilterStudentsByClass(ctx context.Context, className string) ([]roster.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()
	return repo.queryStudents(func(std roster.Student) bool { return std.ClassName == className }), nil
}

func (repo *rosterRepository) queryStudents(match func(roster.Student) bool) []roster.Student {
	students := make([]roster.Student, 0, len(repo.students.table))
	for _, std := range repo.students.table {
		if match(*std) {
			students = append(students, *std)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students
}

func (repo *rosterRepository) CreateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	repo.teachers.Lock()
	defer repo.teachers.Unlock()

	tch.ID = uuid.New().String()
	repo.teachers.table[tch.ID] = &tch
	return tch, nil
}

func (repo *rosterRepository) GetTeacherByID(ctx context.Context, id string) (roster.Teacher, error) {
	repo.teachers.RLock()
	defer repo.teachers.RUnlock()

	if tch, ok := repo.teachers.table[id]; ok {
		return *tch, nil
	}
	return roster.Teacher{}, roster.ErrTeacherNotFound
}

func (repo *rosterRepository) QueryAllTeachers(ctx context.Context) ([]roster.Teacher, error) {
	repo.teachers.RLock()
	defer repo.teachers.RUnlock()

	teachers := make([]roster.Teacher, 0, len(repo.teachers.table))
	for _, tch := range repo.teachers.table {
		teachers = append(teachers, *tch)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers, nil
}
