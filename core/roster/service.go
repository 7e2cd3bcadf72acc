package roster

import (
	"context"
	"errors"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrTeacherNotFound = errors.New("teacher not found")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		// FilterStudentsByClass does an exact match on Student.ClassName.
		FilterStudentsByClass(ctx context.Context, className string) ([]Student, error)
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
	}

	// Service is the read-mostly source of truth for school membership.
	// The attendance and assignment services consume it by id only.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) AddStudent(ctx context.Context, std Student) (Student, error) {
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) AddTeacher(ctx context.Context, tch Teacher) (Teacher, error) {
	return svc.repo.CreateTeacher(ctx, tch)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) AllStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) AllTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

func (svc *Service) StudentsInClass(ctx context.Context, className string) ([]Student, error) {
	return svc.repo.FilterStudentsByClass(ctx, className)
}

// StudentClass returns the class the student currently belongs to.
func (svc *Service) StudentClass(ctx context.Context, id string) (string, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return "", err
	}
	return std.ClassName, nil
}
