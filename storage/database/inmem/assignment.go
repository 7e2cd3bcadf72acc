package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/darasahq/darasa/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db.assignment}
}

// copyAssignment detaches the stored assignment so callers can never mutate
// the table through a shared submission slice.
func copyAssignment(a *assignment.Assignment) assignment.Assignment {
	cp := *a
	if a.Submissions != nil {
		cp.Submissions = make(assignment.SubmissionList, len(a.Submissions))
		copy(cp.Submissions, a.Submissions)
	}
	return cp
}

func (repo *assignmentRepository) query() []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(repo.db.table))
	for _, a := range repo.db.table {
		assignments = append(assignments, copyAssignment(a))
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].CreatedAt.Before(assignments[j].CreatedAt)
	})
	return assignments
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = uuid.New().String()
	stored := copyAssignment(&a)
	repo.db.table[a.ID] = &stored
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return copyAssignment(a), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignments(ctx context.Context, filter *assignment.QueryFilter) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := repo.query()
	if filter == nil || filter.IsEmpty() {
		return assignments, nil
	}
	matched := make([]assignment.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if filter.Matches(a) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[a.ID]; !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	stored := copyAssignment(&a)
	repo.db.table[a.ID] = &stored
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignmentByID(ctx context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
