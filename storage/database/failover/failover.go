// Package failoverdb wraps each durable repository with its in-memory twin.
// Every call goes to the durable store first; if that call fails with anything
// but a domain error, the failure is logged and the same call is served by the
// in-memory store instead. The durable call is never retried within the call,
// and values written during a fallback window are not reconciled back.
package failoverdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
)

const logMsg = "durable store call failed; serving the in-memory fallback"

// isDomainErr reports whether err carries business meaning (and must propagate)
// rather than indicating store trouble.
func isDomainErr(err error) bool {
	switch errors.Cause(err) {
	case attendance.ErrNotFound, attendance.ErrEntryExists,
		assignment.ErrNotFound, assignment.ErrSubmissionNotFound,
		roster.ErrStudentNotFound, roster.ErrTeacherNotFound:
		return true
	}
	return false
}

// Attendance

type AttendanceRepository struct {
	durable attendance.Repository
	mem     attendance.Repository
	logger  core.Logger
}

var _ attendance.Repository = (*AttendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(durable, mem attendance.Repository, logger core.Logger) *AttendanceRepository {
	return &AttendanceRepository{durable: durable, mem: mem, logger: logger}
}

func (repo *AttendanceRepository) fallback(err error) bool {
	if err == nil || isDomainErr(err) {
		return false
	}
	repo.logger.Error(logMsg, err)
	return true
}

func (repo *AttendanceRepository) CreateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	created, err := repo.durable.CreateEntry(ctx, ent)
	if repo.fallback(err) {
		return repo.mem.CreateEntry(ctx, ent)
	}
	return created, err
}

func (repo *AttendanceRepository) GetEntryByID(ctx context.Context, id string) (attendance.Entry, error) {
	ent, err := repo.durable.GetEntryByID(ctx, id)
	if repo.fallback(err) {
		return repo.mem.GetEntryByID(ctx, id)
	}
	return ent, err
}

func (repo *AttendanceRepository) GetEntryByKey(ctx context.Context, date, className, subject string) (attendance.Entry, error) {
	ent, err := repo.durable.GetEntryByKey(ctx, date, className, subject)
	if repo.fallback(err) {
		return repo.mem.GetEntryByKey(ctx, date, className, subject)
	}
	return ent, err
}

func (repo *AttendanceRepository) FilterEntries(ctx context.Context, filter *attendance.QueryFilter) ([]attendance.Entry, error) {
	entries, err := repo.durable.FilterEntries(ctx, filter)
	if repo.fallback(err) {
		return repo.mem.FilterEntries(ctx, filter)
	}
	return entries, err
}

func (repo *AttendanceRepository) UpdateEntry(ctx context.Context, ent attendance.Entry) (attendance.Entry, error) {
	updated, err := repo.durable.UpdateEntry(ctx, ent)
	if repo.fallback(err) {
		return repo.mem.UpdateEntry(ctx, ent)
	}
	return updated, err
}

func (repo *AttendanceRepository) DeleteEntryByID(ctx context.Context, id string) error {
	err := repo.durable.DeleteEntryByID(ctx, id)
	if repo.fallback(err) {
		return repo.mem.DeleteEntryByID(ctx, id)
	}
	return err
}

// Assignment

type AssignmentRepository struct {
	durable assignment.Repository
	mem     assignment.Repository
	logger  core.Logger
}

var _ assignment.Repository = (*AssignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(durable, mem assignment.Repository, logger core.Logger) *AssignmentRepository {
	return &AssignmentRepository{durable: durable, mem: mem, logger: logger}
}

func (repo *AssignmentRepository) fallback(err error) bool {
	if err == nil || isDomainErr(err) {
		return false
	}
	repo.logger.Error(logMsg, err)
	return true
}

func (repo *AssignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	created, err := repo.durable.CreateAssignment(ctx, a)
	if repo.fallback(err) {
		return repo.mem.CreateAssignment(ctx, a)
	}
	return created, err
}

func (repo *AssignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	a, err := repo.durable.GetAssignmentByID(ctx, id)
	if repo.fallback(err) {
		return repo.mem.GetAssignmentByID(ctx, id)
	}
	return a, err
}

func (repo *AssignmentRepository) FilterAssignments(ctx context.Context, filter *assignment.QueryFilter) ([]assignment.Assignment, error) {
	assignments, err := repo.durable.FilterAssignments(ctx, filter)
	if repo.fallback(err) {
		return repo.mem.FilterAssignments(ctx, filter)
	}
	return assignments, err
}

func (repo *AssignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	updated, err := repo.durable.UpdateAssignment(ctx, a)
	if repo.fallback(err) {
		return repo.mem.UpdateAssignment(ctx, a)
	}
	return updated, err
}

func (repo *AssignmentRepository) DeleteAssignmentByID(ctx context.Context, id string) error {
	err := repo.durable.DeleteAssignmentByID(ctx, id)
	if repo.fallback(err) {
		return repo.mem.DeleteAssignmentByID(ctx, id)
	}
	return err
}

// Roster

type RosterRepository struct {
	durable roster.Repository
	mem     roster.Repository
	logger  core.Logger
}

var _ roster.Repository = (*RosterRepository)(nil) // interface compliance check

func NewRosterRepository(durable, mem roster.Repository, logger core.Logger) *RosterRepository {
	return &RosterRepository{durable: durable, mem: mem, logger: logger}
}

func (repo *RosterRepository) fallback(err error) bool {
	if err == nil || isDomainErr(err) {
		return false
	}
	repo.logger.Error(logMsg, err)
	return true
}

func (repo *RosterRepository) CreateStudent(ctx context.Context, std roster.Student) (roster.Student, error) {
	created, err := repo.durable.CreateStudent(ctx, std)
	if repo.fallback(err) {
		return repo.mem.CreateStudent(ctx, std)
	}
	return created, err
}

func (repo *RosterRepository) GetStudentByID(ctx context.Context, id string) (roster.Student, error) {
	std, err := repo.durable.GetStudentByID(ctx, id)
	if repo.fallback(err) {
		return repo.mem.GetStudentByID(ctx, id)
	}
	return std, err
}

func (repo *RosterRepository) QueryAllStudents(ctx context.Context) ([]roster.Student, error) {
	students, err := repo.durable.QueryAllStudents(ctx)
	if repo.fallback(err) {
		return repo.mem.QueryAllStudents(ctx)
	}
	return students, err
}

func (repo *RosterRepository) FilterStudentsByClass(ctx context.Context, className string) ([]roster.Student, error) {
	students, err := repo.durable.FilterStudentsByClass(ctx, className)
	if repo.fallback(err) {
		return repo.mem.FilterStudentsByClass(ctx, className)
	}
	return students, err
}

func (repo *RosterRepository) CreateTeacher(ctx context.Context, tch roster.Teacher) (roster.Teacher, error) {
	created, err := repo.durable.CreateTeacher(ctx, tch)
	if repo.fallback(err) {
		return repo.mem.CreateTeacher(ctx, tch)
	}
	return created, err
}

func (repo *RosterRepository) GetTeacherByID(ctx context.Context, id string) (roster.Teacher, error) {
	tch, err := repo.durable.GetTeacherByID(ctx, id)
	if repo.fallback(err) {
		return repo.mem.GetTeacherByID(ctx, id)
	}
	return tch, err
}

func (repo *RosterRepository) QueryAllTeachers(ctx context.Context) ([]roster.Teacher, error) {
	teachers, err := repo.durable.QueryAllTeachers(ctx)
	if repo.fallback(err) {
		return repo.mem.QueryAllTeachers(ctx)
	}
	return teachers, err
}
