package assignment

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

// Assignment statuses. The service itself only ever writes StatusActive and
// StatusCompleted; "overdue" is a read-time classification per viewing student
// (see CandidateView) and "pending" survives for imported data and manual edits.
const (
	StatusActive    = "active"
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusOverdue   = "overdue"
)

// Assignment scopes.
const (
	AssignedToAll     = "all"
	AssignedToClass   = "class"
	AssignedToStudent = "student"
)

// Submission statuses.
const (
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
)

type (
	// Submission is one student's recorded response; at most one per
	// (assignment, student) pair, and it has no identity of its own.
	Submission struct {
		StudentID   string    `json:"student_id"`
		StudentName string    `json:"student_name"`
		SubmittedAt time.Time `json:"submitted_at"` // UTC
		Marks       *int      `json:"marks"`        // nil until graded
		Feedback    string    `json:"feedback"`
		FileURL     string    `json:"file_url"` // opaque reference, upload mechanics live elsewhere
		Status      string    `json:"status"`
	}

	// SubmissionList is stored as a single JSONB document alongside its Assignment.
	SubmissionList []Submission

	Assignment struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Subject     string `json:"subject"`
		TeacherID   string `json:"teacher_id"`
		TeacherName string `json:"teacher_name"`

		AssignedTo string `json:"assigned_to"` // all | class | student
		ClassName  string `json:"class_name,omitempty"`
		StudentID  string `json:"student_id,omitempty"`

		DueDate    time.Time `json:"due_date"` // UTC
		TotalMarks int       `json:"total_marks"`
		Status     string    `json:"status"`

		// TotalStudents is a snapshot of the scope size at creation time.
		TotalStudents  int            `json:"total_students"`
		SubmittedCount int            `json:"submitted_count"`
		Submissions    SubmissionList `json:"submissions"`

		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	// CandidateView is the assignment as one student sees it.
	CandidateView struct {
		Assignment
		CandidateStatus string      `json:"candidate_status"` // submitted | graded | overdue | pending
		DaysRemaining   int         `json:"days_remaining"`
		Submission      *Submission `json:"submission,omitempty"`
	}
)

// SubmissionFor returns the student's submission, or nil.
func (a *Assignment) SubmissionFor(studentID string) *Submission {
	for i := range a.Submissions {
		if a.Submissions[i].StudentID == studentID {
			return &a.Submissions[i]
		}
	}
	return nil
}

// InScope reports whether the student may submit to this assignment.
func (a *Assignment) InScope(studentID, studentClass string) bool {
	switch a.AssignedTo {
	case AssignedToClass:
		return studentClass == a.ClassName
	case AssignedToStudent:
		return studentID == a.StudentID
	default: // all
		return true
	}
}

func (l SubmissionList) Value() (driver.Value, error) {
	if l == nil {
		l = SubmissionList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling submission list")
	}
	return data, nil
}

func (l *SubmissionList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return errors.Errorf("scanning submission list: unexpected type %T", src)
	}
	return errors.Wrap(json.Unmarshal(data, l), "unmarshaling submission list")
}

// NewAssignment contains information needed to create an Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Subject     string    `json:"subject" validate:"required"`
	TeacherID   string    `json:"teacher_id" validate:"required"`
	TeacherName string    `json:"teacher_name"`
	AssignedTo  string    `json:"assigned_to" validate:"omitempty,oneof=all class student"`
	ClassName   string    `json:"class_name"`
	StudentID   string    `json:"student_id"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	TotalMarks  int       `json:"total_marks" validate:"omitempty,min=1"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Subject = core.CleanString(na.Subject)
	na.ClassName = core.CleanString(na.ClassName)

	if err := validate.Struct(na); err != nil {
		return err
	}
	switch na.AssignedTo {
	case AssignedToClass:
		if na.ClassName == "" {
			return core.NewFieldError("class_name", "this field is required")
		}
	case AssignedToStudent:
		if na.StudentID == "" {
			return core.NewFieldError("student_id", "this field is required")
		}
	}
	return nil
}

// UpdateAssignment defines what may be changed on a stored Assignment. The
// submission list and its counters are never writable through it.
type UpdateAssignment struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	ClassName   string     `json:"class_name"`
	DueDate     *time.Time `json:"due_date"`
	TotalMarks  *int       `json:"total_marks" validate:"omitempty,min=1"`
	Status      string     `json:"status" validate:"omitempty,oneof=active pending completed overdue"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Subject = core.CleanString(ua.Subject)
	ua.ClassName = core.CleanString(ua.ClassName)
	return validate.Struct(ua)
}

// NewSubmission contains information needed to record a student's submission.
type NewSubmission struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name"`
	FileURL     string `json:"file_url"`
	Feedback    string `json:"feedback"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.StudentID = core.CleanString(ns.StudentID)
	return validate.Struct(ns)
}

// GradeSubmission contains a teacher's marking of one submission.
type GradeSubmission struct {
	Marks    *int   `json:"marks" validate:"required"`
	Feedback string `json:"feedback"`
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(gs)
}

type QueryFilter struct {
	TeacherID string `query:"teacherId"`
	ClassName string `query:"class"`
	Status    string `query:"status"`
	Subject   string `query:"subject"`
	Search    string `query:"search"` // case-insensitive match on title, subject, teacher name or description
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeacherID == "" && qf.ClassName == "" && qf.Status == "" && qf.Subject == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.TeacherID = core.CleanString(qf.TeacherID)
	qf.ClassName = core.CleanString(qf.ClassName)
	qf.Status = core.CleanString(qf.Status, true /* lower */)
	qf.Subject = core.CleanString(qf.Subject)
	qf.Search = core.CleanString(qf.Search)
}

// Matches reports whether the assignment satisfies every set filter field.
func (qf *QueryFilter) Matches(a Assignment) bool {
	if qf.TeacherID != "" && a.TeacherID != qf.TeacherID {
		return false
	}
	if qf.ClassName != "" && a.ClassName != qf.ClassName {
		return false
	}
	if qf.Status != "" && a.Status != qf.Status {
		return false
	}
	if qf.Subject != "" && !strings.EqualFold(a.Subject, qf.Subject) {
		return false
	}
	if qf.Search != "" {
		needle := strings.ToLower(qf.Search)
		for _, hay := range []string{a.Title, a.Subject, a.TeacherName, a.Description} {
			if strings.Contains(strings.ToLower(hay), needle) {
				return true
			}
		}
		return false
	}
	return true
}
