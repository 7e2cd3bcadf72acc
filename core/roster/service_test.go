package roster_test

import (
	"context"
	"testing"

	"github.com/darasahq/darasa/core/roster"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

func setup(t *testing.T) *roster.Service {
	t.Helper()
	return roster.NewService(inmemdb.NewRosterRepository(inmemdb.Open()))
}

func TestService_students(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	amani, err := svc.AddStudent(ctx, roster.Student{Name: "Amani", Email: "amani@test.cd", ClassName: "Form 1A"})
	if err != nil {
		t.Fatalf("AddStudent() error = %v", err)
	}
	if amani.ID == "" {
		t.Error("AddStudent() did not assign an id")
	}
	if _, err = svc.AddStudent(ctx, roster.Student{Name: "Chiku", ClassName: "Form 2B"}); err != nil {
		t.Fatalf("AddStudent() error = %v", err)
	}

	got, err := svc.GetStudent(ctx, amani.ID)
	if err != nil {
		t.Fatalf("GetStudent() error = %v", err)
	}
	if got.Name != "Amani" {
		t.Errorf("Name = %s, want Amani", got.Name)
	}
	if _, err = svc.GetStudent(ctx, "nope"); err != roster.ErrStudentNotFound {
		t.Errorf("GetStudent() error = %v, want ErrStudentNotFound", err)
	}

	all, err := svc.AllStudents(ctx)
	if err != nil {
		t.Fatalf("AllStudents() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}

	inClass, err := svc.StudentsInClass(ctx, "Form 1A")
	if err != nil {
		t.Fatalf("StudentsInClass() error = %v", err)
	}
	if len(inClass) != 1 || inClass[0].ID != amani.ID {
		t.Errorf("unexpected class roster %+v", inClass)
	}

	class, err := svc.StudentClass(ctx, amani.ID)
	if err != nil {
		t.Fatalf("StudentClass() error = %v", err)
	}
	if class != "Form 1A" {
		t.Errorf("StudentClass() = %s, want Form 1A", class)
	}
	if _, err = svc.StudentClass(ctx, "nope"); err != roster.ErrStudentNotFound {
		t.Errorf("StudentClass() error = %v, want ErrStudentNotFound", err)
	}
}

func TestService_teachers(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tch, err := svc.AddTeacher(ctx, roster.Teacher{Name: "Mr. Mutombo", Subject: "Math"})
	if err != nil {
		t.Fatalf("AddTeacher() error = %v", err)
	}

	got, err := svc.GetTeacher(ctx, tch.ID)
	if err != nil {
		t.Fatalf("GetTeacher() error = %v", err)
	}
	if got.Subject != "Math" {
		t.Errorf("Subject = %s, want Math", got.Subject)
	}
	if _, err = svc.GetTeacher(ctx, "nope"); err != roster.ErrTeacherNotFound {
		t.Errorf("GetTeacher() error = %v, want ErrTeacherNotFound", err)
	}

	all, err := svc.AllTeachers(ctx)
	if err != nil {
		t.Fatalf("AllTeachers() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("len(all) = %d, want 1", len(all))
	}
}
