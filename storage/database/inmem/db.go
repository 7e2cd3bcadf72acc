package inmemdb

import (
	"sync"

	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
)

// DB is the transient store: plain tables in process memory, each guarded by
// its own RWMutex. It backs tests and serves as the fallback when the durable
// store is unreachable; nothing written here is ever reconciled back.
type (
	DB struct {
		attendance *attendanceTable
		assignment *assignmentTable
		student    *studentTable
		teacher    *teacherTable
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Entry
	}

	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*roster.Student
	}

	teacherTable struct {
		sync.RWMutex
		table map[string]*roster.Teacher
	}
)

func Open() *DB {
	return &DB{
		attendance: &attendanceTable{table: make(map[string]*attendance.Entry)},
		assignment: &assignmentTable{table: make(map[string]*assignment.Assignment)},
		student:    &studentTable{table: make(map[string]*roster.Student)},
		teacher:    &teacherTable{table: make(map[string]*roster.Teacher)},
	}
}

// Reset empties every table. Meant for tests.
func (db *DB) Reset() {
	db.attendance.Lock()
	db.attendance.table = make(map[string]*attendance.Entry)
	db.attendance.Unlock()

	db.assignment.Lock()
	db.assignment.table = make(map[string]*assignment.Assignment)
	db.assignment.Unlock()

	db.student.Lock()
	db.student.table = make(map[string]*roster.Student)
	db.student.Unlock()

	db.teacher.Lock()
	db.teacher.table = make(map[string]*roster.Teacher)
	db.teacher.Unlock()
}
