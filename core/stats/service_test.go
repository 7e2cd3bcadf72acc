package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
	"github.com/darasahq/darasa/core/stats"
	emailsvc "github.com/darasahq/darasa/services/email"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

func setup(t *testing.T) (*stats.Service, *roster.Service, *attendance.Service, *assignment.Service) {
	t.Helper()
	db := inmemdb.Open()
	rosterSvc := roster.NewService(inmemdb.NewRosterRepository(db))
	attendanceSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db))
	assignmentSvc := assignment.NewService(inmemdb.NewAssignmentRepository(db), rosterSvc, emailsvc.NewDummyService())
	return stats.NewService(rosterSvc, attendanceSvc, assignmentSvc), rosterSvc, attendanceSvc, assignmentSvc
}

func TestService_AdminDashboard_emptySchool(t *testing.T) {
	svc, _, _, _ := setup(t)

	dash, err := svc.AdminDashboard(context.Background())
	if err != nil {
		t.Fatalf("AdminDashboard() error = %v", err)
	}
	// zero denominators must not blow up
	want := stats.Dashboard{}
	if dash != want {
		t.Errorf("AdminDashboard() = %+v, want all zeros", dash)
	}
}

func TestService_AdminDashboard(t *testing.T) {
	svc, rosterSvc, attendanceSvc, assignmentSvc := setup(t)
	ctx := context.Background()

	var students []roster.Student
	for _, name := range []string{"Amani", "Bahati"} {
		std, err := rosterSvc.AddStudent(ctx, roster.Student{Name: name, ClassName: "Form 1A"})
		if err != nil {
			t.Fatalf("AddStudent() error = %v", err)
		}
		students = append(students, std)
	}
	if _, err := rosterSvc.AddTeacher(ctx, roster.Teacher{Name: "Mr. Mutombo", Subject: "Math"}); err != nil {
		t.Fatalf("AddTeacher() error = %v", err)
	}

	// 3 present, 1 absent -> 75% attendance; late does not count either way
	if _, err := attendanceSvc.Upsert(ctx, attendance.NewEntry{
		Date: "2026-03-02", ClassName: "Form 1A", Subject: "Math",
		Records: []attendance.NewRecord{
			{StudentID: students[0].ID, Status: attendance.StatusPresent},
			{StudentID: students[1].ID, Status: attendance.StatusAbsent},
		},
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := attendanceSvc.Upsert(ctx, attendance.NewEntry{
		Date: "2026-03-03", ClassName: "Form 1A", Subject: "Math",
		Records: []attendance.NewRecord{
			{StudentID: students[0].ID, Status: attendance.StatusPresent},
			{StudentID: students[1].ID, Status: attendance.StatusPresent},
		},
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// 2 assignments x 2 students, 1 submission -> 25% submission rate
	a, err := assignmentSvc.Create(ctx, assignment.NewAssignment{
		Title: "Chapter 4", Subject: "Math", TeacherID: "t1", DueDate: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err = assignmentSvc.Create(ctx, assignment.NewAssignment{
		Title: "Chapter 5", Subject: "Math", TeacherID: "t1", DueDate: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err = assignmentSvc.Submit(ctx, a.ID, assignment.NewSubmission{StudentID: students[0].ID}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	dash, err := svc.AdminDashboard(ctx)
	if err != nil {
		t.Fatalf("AdminDashboard() error = %v", err)
	}
	want := stats.Dashboard{
		Students:         2,
		Teachers:         1,
		Assignments:      2,
		TotalSubmissions: 1,
		AttendanceRate:   75,
		SubmissionRate:   25,
	}
	if dash != want {
		t.Errorf("AdminDashboard() = %+v, want %+v", dash, want)
	}
}
