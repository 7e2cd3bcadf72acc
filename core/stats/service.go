package stats

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
)

type (
	// Dashboard is the admin landing-page summary.
	Dashboard struct {
		Students         int `json:"students"`
		Teachers         int `json:"teachers"`
		Assignments      int `json:"assignments"`
		TotalSubmissions int `json:"total_submissions"`
		AttendanceRate   int `json:"attendance_rate"` // round(present / (present + absent) * 100)
		SubmissionRate   int `json:"submission_rate"` // round(submissions / (assignments * students) * 100)
	}

	// Service derives dashboard rates from the ledgers. Strictly read-only.
	Service struct {
		rosterSvc     *roster.Service
		attendanceSvc *attendance.Service
		assignmentSvc *assignment.Service
	}
)

func NewService(rosterSvc *roster.Service, attendanceSvc *attendance.Service, assignmentSvc *assignment.Service) *Service {
	return &Service{
		rosterSvc:     rosterSvc,
		attendanceSvc: attendanceSvc,
		assignmentSvc: assignmentSvc,
	}
}

func (svc *Service) AdminDashboard(ctx context.Context) (Dashboard, error) {
	var dash Dashboard

	students, err := svc.rosterSvc.AllStudents(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying students")
	}
	dash.Students = len(students)

	teachers, err := svc.rosterSvc.AllTeachers(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying teachers")
	}
	dash.Teachers = len(teachers)

	entries, err := svc.attendanceSvc.Filter(ctx, &attendance.QueryFilter{})
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying attendance entries")
	}
	var present, absent int
	for _, row := range attendance.Flatten(entries) {
		switch row.Status {
		case attendance.StatusPresent:
			present++
		case attendance.StatusAbsent:
			absent++
		}
	}
	dash.AttendanceRate = rate(present, present+absent)

	assignments, err := svc.assignmentSvc.Filter(ctx, &assignment.QueryFilter{})
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying assignments")
	}
	dash.Assignments = len(assignments)
	for _, a := range assignments {
		dash.TotalSubmissions += len(a.Submissions)
	}
	dash.SubmissionRate = rate(dash.TotalSubmissions, dash.Assignments*dash.Students)

	return dash, nil
}

// rate is round(part / whole * 100), 0 when the denominator is 0.
func rate(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
