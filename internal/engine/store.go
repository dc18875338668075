// Package engine provides the Date Plan Store, the core of dateplan.
//
// The store holds at most one active plan in memory and keeps it
// synchronized with its file: a plan is loaded when its date becomes active
// and saved after every mutation. All callers (the interactive session and
// the one-shot CLI commands) go through Store.
//
// Failure semantics:
//   - Invalid input (bad date, bad position, multi-line task) is reported
//     before any state changes.
//   - A plan file that cannot be read is treated as empty and logged.
//   - A plan file that cannot be written is logged and reported, but the
//     in-memory mutation is kept.
package engine

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danieljhkim/dateplan/internal/plan"
	"github.com/danieljhkim/dateplan/internal/stores"
)

// Store is the Date Plan Store. It is not safe for concurrent use.
type Store struct {
	repo  stores.PlanRepo
	log   logrus.FieldLogger
	date  plan.Date
	tasks []string
}

// New creates a Store with no active date. The temporary buffer plan is
// loaded as the initial task sequence.
func New(repo stores.PlanRepo, log logrus.FieldLogger) *Store {
	s := newStore(repo, log)
	s.tasks = s.load("")
	return s
}

func newStore(repo stores.PlanRepo, log logrus.FieldLogger) *Store {
	if log == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		log = discard
	}
	return &Store{repo: repo, log: log, tasks: []string{}}
}

// Date returns the active date, or the zero Date if none is set.
func (s *Store) Date() plan.Date {
	return s.date
}

// Tasks returns a copy of the current task sequence.
func (s *Store) Tasks() []string {
	return slices.Clone(s.tasks)
}

// SetDate parses input as DD/MM/YYYY and makes that plan active.
// On a parse failure the active date and tasks are cleared.
func (s *Store) SetDate(input string) (plan.Date, error) {
	d, err := plan.ParseDate(input)
	if err != nil {
		s.date = ""
		s.tasks = []string{}
		return "", err
	}
	s.activate(d)
	return d, nil
}

// AddTask appends text to the active plan and saves it.
func (s *Store) AddTask(text string) error {
	if err := s.requireDate(); err != nil {
		return err
	}
	task, err := plan.NormalizeTask(text)
	if err != nil {
		return err
	}

	s.tasks = append(s.tasks, task)
	return s.save()
}

// ViewTasks returns the active plan for display.
func (s *Store) ViewTasks() (*ViewResult, error) {
	if err := s.requireDate(); err != nil {
		return nil, err
	}
	return &ViewResult{Date: s.date, Tasks: s.Tasks()}, nil
}

// RemoveTask removes the task at the 1-based position and saves the plan.
// The removed task is returned even if saving fails.
func (s *Store) RemoveTask(position int) (string, error) {
	if err := s.requireDate(); err != nil {
		return "", err
	}
	if err := s.checkPosition(position); err != nil {
		return "", err
	}

	removed := s.tasks[position-1]
	s.tasks = slices.Delete(s.tasks, position-1, position)
	return removed, s.save()
}

// UpdateTask replaces the task at the 1-based position and saves the plan.
func (s *Store) UpdateTask(position int, text string) error {
	if err := s.requireDate(); err != nil {
		return err
	}
	if err := s.checkPosition(position); err != nil {
		return err
	}
	task, err := plan.NormalizeTask(text)
	if err != nil {
		return err
	}

	s.tasks[position-1] = task
	return s.save()
}

// MoveTask moves the task at position to the end of the plan for newDate
// and makes that plan active. The source plan is saved first, then the
// target plan is loaded, extended and saved.
func (s *Store) MoveTask(position int, newDate string) (*MoveResult, error) {
	if err := s.requireDate(); err != nil {
		return nil, err
	}
	target, err := plan.ParseDate(newDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkPosition(position); err != nil {
		return nil, err
	}

	from := s.date
	task := s.tasks[position-1]
	s.tasks = slices.Delete(s.tasks, position-1, position)
	srcErr := s.save()

	other := newStore(s.repo, s.log)
	other.activate(target)
	dstErr := other.AddTask(task)

	s.activate(target)

	s.log.WithFields(logrus.Fields{
		"task": task,
		"from": from,
		"to":   target,
	}).Debug("Moved task")

	return &MoveResult{Task: task, From: from, To: target}, errors.Join(srcErr, dstErr)
}

// ChangeDate moves the whole active plan to newDate and makes it active.
// Any existing plan at newDate is overwritten, not merged. The old plan
// file is removed only once the new one has been written.
func (s *Store) ChangeDate(newDate string) (*ChangeDateResult, error) {
	if err := s.requireDate(); err != nil {
		return nil, err
	}
	target, err := plan.ParseDate(newDate)
	if err != nil {
		return nil, err
	}

	result := &ChangeDateResult{From: s.date, To: target, Tasks: len(s.tasks)}
	if target == s.date {
		return result, s.save()
	}

	other := newStore(s.repo, s.log)
	other.date = target
	result.Replaced = len(other.load(target))
	other.tasks = s.Tasks()
	if err := other.save(); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(s.date); err != nil {
		s.log.WithFields(logrus.Fields{
			"path":  s.repo.Path(s.date),
			"cause": err,
		}).Warn("Could not remove old plan")
		s.activate(target)
		return result, fmt.Errorf("failed to remove plan %s: %w", result.From, err)
	}

	s.activate(target)
	return result, nil
}

// ListPlans returns the dates of all persisted plans in directory order.
func (s *Store) ListPlans() ([]plan.Date, error) {
	dates, err := s.repo.List()
	if err != nil {
		s.log.WithField("cause", err).Warn("Could not list plans")
		return nil, err
	}
	return dates, nil
}

// ParsePosition converts user input into a task position.
// Range is checked by the operation using it.
func ParsePosition(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", plan.ErrInvalidPosition, input)
	}
	return n, nil
}

func (s *Store) activate(d plan.Date) {
	s.date = d
	s.tasks = s.load(d)
}

func (s *Store) load(d plan.Date) []string {
	path := s.repo.Path(d)
	tasks, err := s.repo.Load(d)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"path":  path,
			"cause": err,
		}).Warn("Could not load plan, starting empty")
		return []string{}
	}
	s.log.WithFields(logrus.Fields{"path": path, "tasks": len(tasks)}).Debug("Loaded plan")
	return tasks
}

func (s *Store) save() error {
	path := s.repo.Path(s.date)
	if err := s.repo.Save(s.date, s.tasks); err != nil {
		s.log.WithFields(logrus.Fields{
			"path":  path,
			"cause": err,
		}).Warn("Could not save plan")
		return fmt.Errorf("failed to save plan %s: %w", s.date, err)
	}
	s.log.WithFields(logrus.Fields{"path": path, "tasks": len(s.tasks)}).Debug("Saved plan")
	return nil
}

func (s *Store) requireDate() error {
	if s.date.IsZero() {
		return plan.ErrNoActiveDate
	}
	return nil
}

func (s *Store) checkPosition(position int) error {
	if position < 1 || position > len(s.tasks) {
		return fmt.Errorf("%w: %d (plan has %d tasks)", plan.ErrInvalidPosition, position, len(s.tasks))
	}
	return nil
}
