// Package session runs the interactive dateplan loop: pick a date, then
// work on that date's plan from a numbered menu until the user starts a
// new plan or exits.
package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/danieljhkim/dateplan/internal/clock"
	"github.com/danieljhkim/dateplan/internal/engine"
	"github.com/danieljhkim/dateplan/internal/plan"
	"github.com/danieljhkim/dateplan/internal/stores"
)

const (
	exitToken = "exit"
	farewell  = "Thank you for using To do list application. Have a great day!"
)

var (
	headerColor  = color.New(color.FgBlue, color.Bold)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed)
)

// menu is the option list shown while a date is active.
var menu = []string{
	"1. Add Task",
	"2. View Tasks",
	"3. Remove Task",
	"4. Update Task",
	"5. Move Task to Another Date",
	"6. Make New Plan",
	"7. Change Date",
	"8. Exit",
	"n. Navigate Between Plans",
}

// Session drives a Store from user prompts.
type Session struct {
	store  *engine.Store
	prompt Prompter
	out    io.Writer
	clock  clock.Clock
}

// New creates a Session.
func New(store *engine.Store, prompt Prompter, out io.Writer, clk clock.Clock) *Session {
	return &Session{store: store, prompt: prompt, out: out, clock: clk}
}

// errExit unwinds the menu loop when the user chooses to quit.
var errExit = errors.New("exit")

// Run greets the user and loops until they exit or input runs out.
func (s *Session) Run() error {
	s.println("Hello,")
	name, err := s.ask("Please enter your name: ")
	if err != nil {
		return ignoreEOF(err)
	}
	s.printf("Welcome %s to your Date-Based To-Do List Application!\n", name)
	s.println("We're happy to assist you in tracking your daily routine.")
	s.println("Let's get started!")

	for {
		input, err := s.ask("Enter date (DD/MM/YYYY, or type 'today' or 'exit'): ")
		if err != nil {
			return ignoreEOF(err)
		}
		input = strings.ToLower(input)
		if input == exitToken {
			s.println(farewell)
			return nil
		}

		s.setDate(engine.ResolveDateInput(input, s.clock))

		if err := s.menuLoop(); err != nil {
			if errors.Is(err, errExit) {
				s.println(farewell)
				return nil
			}
			return ignoreEOF(err)
		}
	}
}

// menuLoop shows the menu until the user starts a new plan.
func (s *Session) menuLoop() error {
	for !s.store.Date().IsZero() {
		s.showMenu()

		choice, err := s.ask("Enter choice: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "1":
			err = s.addTask()
		case "2":
			s.viewTasks()
		case "3":
			err = s.removeTask()
		case "4":
			err = s.updateTask()
		case "5":
			err = s.moveTask()
		case "6":
			return nil
		case "7":
			err = s.changeDate()
		case "8":
			return errExit
		case "n":
			err = s.navigate()
		default:
			s.println("Invalid choice.")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) showMenu() {
	s.println("")
	_, _ = headerColor.Fprintf(s.out, "Options for %s:\n", s.store.Date())
	for _, line := range menu {
		s.println(line)
	}
}

func (s *Session) setDate(input string) {
	d, err := s.store.SetDate(input)
	if err != nil {
		s.report(err)
		return
	}
	s.printf("Date set: %s\n", d)
}

func (s *Session) addTask() error {
	task, err := s.ask("Enter task: ")
	if err != nil {
		return err
	}
	task = strings.TrimSpace(task)
	s.outcome(s.store.AddTask(task), fmt.Sprintf("Task '%s' added to '%s'.", task, s.store.Date()))
	return nil
}

func (s *Session) viewTasks() {
	view, err := s.store.ViewTasks()
	if err != nil {
		s.report(err)
		return
	}
	if view.Empty() {
		s.printf("'%s' is empty.\n", view.Date)
		return
	}
	s.printf("Plan for '%s':\n", view.Date)
	for _, line := range view.Lines() {
		s.println(line)
	}
}

func (s *Session) removeTask() error {
	pos, ok, err := s.askPosition("Enter position to remove: ")
	if err != nil || !ok {
		return err
	}
	removed, err := s.store.RemoveTask(pos)
	s.outcome(err, fmt.Sprintf("Task '%s' removed from '%s'.", removed, s.store.Date()))
	return nil
}

func (s *Session) updateTask() error {
	pos, ok, err := s.askPosition("Enter position to update: ")
	if err != nil || !ok {
		return err
	}
	task, err := s.ask("Enter new task: ")
	if err != nil {
		return err
	}
	task = strings.TrimSpace(task)
	err = s.store.UpdateTask(pos, task)
	s.outcome(err, fmt.Sprintf("Task at %d updated to '%s' for '%s'.", pos, task, s.store.Date()))
	return nil
}

func (s *Session) moveTask() error {
	pos, ok, err := s.askPosition("Enter position of task to move: ")
	if err != nil || !ok {
		return err
	}
	newDate, err := s.ask("Enter new date (DD/MM/YYYY): ")
	if err != nil {
		return err
	}

	res, err := s.store.MoveTask(pos, engine.ResolveDateInput(newDate, s.clock))
	if res == nil {
		s.report(err)
		return nil
	}
	s.outcome(err, fmt.Sprintf("Task '%s' has been moved and you're now working on %s.", res.Task, res.To))
	return nil
}

func (s *Session) changeDate() error {
	newDate, err := s.ask("Enter the new date (DD/MM/YYYY) to change the plan: ")
	if err != nil {
		return err
	}

	res, err := s.store.ChangeDate(engine.ResolveDateInput(newDate, s.clock))
	if res == nil {
		s.report(err)
		return nil
	}
	if res.Replaced > 0 {
		s.warn(fmt.Sprintf("%d existing task(s) on %s were replaced.", res.Replaced, res.To))
	}
	s.outcome(err, fmt.Sprintf("All tasks have been moved. You're now working on %s.", res.To))
	return nil
}

func (s *Session) navigate() error {
	dates, err := s.store.ListPlans()
	if err != nil {
		s.report(err)
		return nil
	}
	if len(dates) == 0 {
		s.println("No saved plans found.")
		return nil
	}

	s.println("")
	_, _ = headerColor.Fprintln(s.out, "Available Plans:")
	for i, d := range dates {
		s.printf("%d. %s\n", i+1, d)
	}

	answer, err := s.ask("Enter the number of the plan to switch to: ")
	if err != nil {
		return err
	}
	choice, convErr := strconv.Atoi(answer)
	if convErr != nil {
		s.println("Enter a valid number.")
		return nil
	}
	if choice < 1 || choice > len(dates) {
		s.println("Invalid selection.")
		return nil
	}
	s.setDate(dates[choice-1].String())
	return nil
}

// askPosition reads a task position. ok is false when the answer was not
// a number; the user has already been told.
func (s *Session) askPosition(label string) (int, bool, error) {
	answer, err := s.ask(label)
	if err != nil {
		return 0, false, err
	}
	pos, err := engine.ParsePosition(answer)
	if err != nil {
		s.println("Enter valid number.")
		return 0, false, nil
	}
	return pos, true, nil
}

func (s *Session) ask(label string) (string, error) {
	answer, err := s.prompt.Prompt(label)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// outcome prints success unless err is an input error. A failed save
// still reports success since the change is kept in memory.
func (s *Session) outcome(err error, success string) {
	if err != nil && !errors.Is(err, stores.ErrStorageWrite) {
		s.report(err)
		return
	}
	_, _ = successColor.Fprintln(s.out, success)
	if err != nil {
		s.report(err)
	}
}

// report translates an operation error into a user-facing message.
func (s *Session) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, plan.ErrInvalidDateFormat):
		s.println("Invalid date format. Use DD/MM/YYYY.")
	case errors.Is(err, plan.ErrNoActiveDate):
		s.println("Set date first.")
	case errors.Is(err, plan.ErrInvalidPosition):
		s.println("Invalid position.")
	case errors.Is(err, plan.ErrInvalidTask):
		s.println("Task must be a single line.")
	case errors.Is(err, stores.ErrStorageWrite):
		s.warn(fmt.Sprintf("Changes could not be saved: %v", err))
	default:
		_, _ = errorColor.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Session) warn(msg string) {
	_, _ = warningColor.Fprintf(s.out, "Warning: %s\n", msg)
}

func (s *Session) println(msg string) {
	_, _ = fmt.Fprintln(s.out, msg)
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
