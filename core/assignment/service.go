package assignment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/roster"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("this student has already submitted")
	ErrNotInScope         = errors.New("this assignment is not assigned to this student")
)

const defaultTotalMarks = 100

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// FilterAssignments applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Assignment.Title,
		// Assignment.Subject, Assignment.TeacherName or Assignment.Description.
		FilterAssignments(ctx context.Context, filter *QueryFilter) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignmentByID(ctx context.Context, id string) error
	}

	// Roster is the slice of the school roster this service consumes, by id only.
	Roster interface {
		AllStudents(ctx context.Context) ([]roster.Student, error)
		StudentsInClass(ctx context.Context, className string) ([]roster.Student, error)
		StudentClass(ctx context.Context, id string) (string, error)
	}

	// Service owns assignments and their embedded submission lifecycle.
	Service struct {
		repo    Repository
		roster  Roster
		mailSvc core.EmailService
		keys    core.KeyedMutex
	}
)

func NewService(repo Repository, rst Roster, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, roster: rst, mailSvc: mailSvc}
}

// Create resolves the scope target via the roster, snapshots its size into
// TotalStudents and stores the assignment as active with no submissions.
func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	if na.AssignedTo == "" {
		na.AssignedTo = AssignedToAll
	}
	if na.TotalMarks == 0 {
		na.TotalMarks = defaultTotalMarks
	}

	scoped, err := svc.scopedStudents(ctx, na.AssignedTo, na.ClassName, na.StudentID)
	if err != nil {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	a := Assignment{
		Title:          na.Title,
		Description:    na.Description,
		Subject:        na.Subject,
		TeacherID:      na.TeacherID,
		TeacherName:    na.TeacherName,
		AssignedTo:     na.AssignedTo,
		ClassName:      na.ClassName,
		StudentID:      na.StudentID,
		DueDate:        na.DueDate.UTC(),
		TotalMarks:     na.TotalMarks,
		Status:         StatusActive,
		TotalStudents:  len(scoped),
		SubmittedCount: 0,
		Submissions:    SubmissionList{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	a, err = svc.repo.CreateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, err
	}

	svc.notifyStudents(a, scoped)
	return a, nil
}

func (svc *Service) scopedStudents(ctx context.Context, assignedTo, className, studentID string) ([]roster.Student, error) {
	switch assignedTo {
	case AssignedToClass:
		return svc.roster.StudentsInClass(ctx, className)
	case AssignedToStudent:
		// the scope size is 1 whether or not the roster can resolve a name
		return []roster.Student{{ID: studentID}}, nil
	default:
		return svc.roster.AllStudents(ctx)
	}
}

// notifyStudents emails the in-scope students. Best effort: the email service
// sends concurrently and failures never surface here.
func (svc *Service) notifyStudents(a Assignment, scoped []roster.Student) {
	to := make([]mail.Address, 0, len(scoped))
	for _, std := range scoped {
		if std.Email != "" {
			to = append(to, mail.Address{Name: std.Name, Address: std.Email})
		}
	}
	if len(to) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New assignment: %s", a.Title),
		TextContent: fmt.Sprintf(
			"A new %s assignment %q is due on %s.",
			a.Subject, a.Title, a.DueDate.Format("Mon, 02 Jan 2006"),
		),
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter *QueryFilter) ([]Assignment, error) {
	return svc.repo.FilterAssignments(ctx, filter)
}

// Submit appends the student's submission. It rejects students outside the
// assignment scope and duplicate submissions; on success SubmittedCount tracks
// the list length and the assignment completes once every scoped student is in.
func (svc *Service) Submit(ctx context.Context, assignmentID string, ns NewSubmission) (Assignment, error) {
	defer svc.keys.Lock(assignmentID)()

	a, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}

	var studentClass string
	if a.AssignedTo == AssignedToClass {
		if studentClass, err = svc.roster.StudentClass(ctx, ns.StudentID); err != nil {
			if errors.Is(err, roster.ErrStudentNotFound) {
				return Assignment{}, ErrNotInScope
			}
			return Assignment{}, err
		}
	}
	if !a.InScope(ns.StudentID, studentClass) {
		return Assignment{}, ErrNotInScope
	}
	if a.SubmissionFor(ns.StudentID) != nil {
		return Assignment{}, ErrAlreadySubmitted
	}

	now := time.Now().UTC()
	a.Submissions = append(a.Submissions, Submission{
		StudentID:   ns.StudentID,
		StudentName: ns.StudentName,
		SubmittedAt: now,
		Marks:       nil,
		Feedback:    ns.Feedback,
		FileURL:     ns.FileURL,
		Status:      SubmissionSubmitted,
	})
	a.SubmittedCount = len(a.Submissions)
	// completed is terminal: it never reverts to active
	if a.SubmittedCount >= a.TotalStudents {
		a.Status = StatusCompleted
	}
	a.UpdatedAt = now

	return svc.repo.UpdateAssignment(ctx, a)
}

// Grade marks one submission in place. It never touches SubmittedCount or the
// assignment's own status.
func (svc *Service) Grade(ctx context.Context, assignmentID, studentID string, gs GradeSubmission) (Assignment, error) {
	defer svc.keys.Lock(assignmentID)()

	a, err := svc.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	sub := a.SubmissionFor(studentID)
	if sub == nil {
		return Assignment{}, ErrSubmissionNotFound
	}
	if gs.Marks == nil || *gs.Marks < 0 || *gs.Marks > a.TotalMarks {
		return Assignment{}, core.NewFieldError("marks", fmt.Sprintf("marks must be between 0 and %d", a.TotalMarks))
	}

	marks := *gs.Marks
	sub.Marks = &marks
	sub.Feedback = gs.Feedback
	sub.Status = SubmissionGraded
	a.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateAssignment(ctx, a)
}

// Update shallow-merges the set fields of `ua` over the stored assignment.
func (svc *Service) Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	defer svc.keys.Lock(id)()

	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}

	if ua.Title != "" {
		a.Title = ua.Title
	}
	if ua.Description != "" {
		a.Description = ua.Description
	}
	if ua.Subject != "" {
		a.Subject = ua.Subject
	}
	if ua.ClassName != "" {
		a.ClassName = ua.ClassName
	}
	if ua.DueDate != nil {
		a.DueDate = ua.DueDate.UTC()
	}
	if ua.TotalMarks != nil {
		a.TotalMarks = *ua.TotalMarks
	}
	if ua.Status != "" && a.Status != StatusCompleted {
		a.Status = ua.Status
	}
	a.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateAssignment(ctx, a)
}

// Delete removes the assignment and returns it for echoing back to the caller.
func (svc *Service) Delete(ctx context.Context, id string) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if err := svc.repo.DeleteAssignmentByID(ctx, id); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// NewCandidateView derives how `studentID` sees the assignment at `now`. This
// derivation is the single source of truth for "overdue": it needs no
// write-time side effects and can never go stale.
func NewCandidateView(a Assignment, studentID string, now time.Time) CandidateView {
	view := CandidateView{Assignment: a, DaysRemaining: daysRemaining(a.DueDate, now)}
	if sub := a.SubmissionFor(studentID); sub != nil {
		view.CandidateStatus = sub.Status
		view.Submission = sub
	} else if now.After(a.DueDate) {
		view.CandidateStatus = StatusOverdue
	} else {
		view.CandidateStatus = StatusPending
	}
	return view
}

// daysRemaining is ceil((due - now) / 24h), floored at 0.
func daysRemaining(due, now time.Time) int {
	left := due.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}
