package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/dateplan/internal/clock"
	"github.com/danieljhkim/dateplan/internal/fsops"
	"github.com/danieljhkim/dateplan/internal/plan"
	"github.com/danieljhkim/dateplan/internal/stores"
)

type fixture struct {
	fs    *fsops.MemFS
	repo  *stores.FilePlanRepo
	hook  *test.Hook
	store *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fs := fsops.NewMemFS()
	repo := stores.NewFilePlanRepo(fs, "/plans", plan.DefaultBase, true)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return &fixture{fs: fs, repo: repo, hook: hook, store: New(repo, logger)}
}

func (f *fixture) fileTasks(t *testing.T, d plan.Date) []string {
	t.Helper()
	tasks, err := f.repo.Load(d)
	require.NoError(t, err)
	return tasks
}

func (f *fixture) exists(t *testing.T, d plan.Date) bool {
	t.Helper()
	ok, err := f.fs.Exists(f.repo.Path(d))
	require.NoError(t, err)
	return ok
}

func (f *fixture) warnings() []string {
	var msgs []string
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

func mustSetDate(t *testing.T, s *Store, input string) {
	t.Helper()
	_, err := s.SetDate(input)
	require.NoError(t, err)
}

func TestSetDate_Canonicalizes(t *testing.T) {
	f := newFixture(t)
	d, err := f.store.SetDate("5/6/2025")
	require.NoError(t, err)
	assert.Equal(t, plan.Date("05/06/2025"), d)
	assert.Equal(t, d, f.store.Date())
	assert.Empty(t, f.store.Tasks())
}

func TestSetDate_LoadsExistingPlan(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Save("15/06/2025", []string{"Buy milk", "Call Bob"}))

	mustSetDate(t, f.store, "15/06/2025")
	assert.Equal(t, []string{"Buy milk", "Call Bob"}, f.store.Tasks())
}

func TestSetDate_InvalidClearsState(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("Buy milk"))

	_, err := f.store.SetDate("31/02/2024")
	assert.ErrorIs(t, err, plan.ErrInvalidDateFormat)
	assert.True(t, f.store.Date().IsZero())
	assert.Empty(t, f.store.Tasks())

	// The plan on disk is untouched.
	assert.Equal(t, []string{"Buy milk"}, f.fileTasks(t, "15/06/2025"))
}

func TestNew_LoadsTempBuffer(t *testing.T) {
	fs := fsops.NewMemFS()
	repo := stores.NewFilePlanRepo(fs, "/plans", "tasks", true)
	require.NoError(t, repo.Save("", []string{"scratch"}))

	s := New(repo, nil)
	assert.True(t, s.Date().IsZero())
	assert.Equal(t, []string{"scratch"}, s.Tasks())
}

func TestOperations_RequireActiveDate(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.store.AddTask("x"), plan.ErrNoActiveDate)
	_, err := f.store.ViewTasks()
	assert.ErrorIs(t, err, plan.ErrNoActiveDate)
	_, err = f.store.RemoveTask(1)
	assert.ErrorIs(t, err, plan.ErrNoActiveDate)
	assert.ErrorIs(t, f.store.UpdateTask(1, "x"), plan.ErrNoActiveDate)
	_, err = f.store.MoveTask(1, "01/01/2025")
	assert.ErrorIs(t, err, plan.ErrNoActiveDate)
	_, err = f.store.ChangeDate("01/01/2025")
	assert.ErrorIs(t, err, plan.ErrNoActiveDate)

	names, err := f.fs.ListFiles("/plans")
	require.NoError(t, err)
	assert.Empty(t, names, "nothing should be written without a date")
}

func TestAddTask_PersistsInOrder(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")

	want := []string{"Buy milk", "Call Bob", "Pay rent"}
	for _, task := range want {
		require.NoError(t, f.store.AddTask(task))
	}

	view, err := f.store.ViewTasks()
	require.NoError(t, err)
	assert.Equal(t, want, view.Tasks)
	assert.Equal(t, []string{"1. Buy milk", "2. Call Bob", "3. Pay rent"}, view.Lines())
	assert.Equal(t, want, f.fileTasks(t, "15/06/2025"))
}

func TestAddTask_RejectsMultiline(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")

	err := f.store.AddTask("one\ntwo")
	assert.ErrorIs(t, err, plan.ErrInvalidTask)
	assert.Empty(t, f.store.Tasks())
	assert.False(t, f.exists(t, "15/06/2025"))
}

func TestViewTasks_Empty(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")

	view, err := f.store.ViewTasks()
	require.NoError(t, err)
	assert.True(t, view.Empty())
	assert.Equal(t, plan.Date("15/06/2025"), view.Date)
}

func TestRoundTrip_FreshStore(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	for _, task := range []string{"c", "a", "b"} {
		require.NoError(t, f.store.AddTask(task))
	}

	fresh := New(f.repo, nil)
	mustSetDate(t, fresh, "15/06/2025")
	assert.Equal(t, []string{"c", "a", "b"}, fresh.Tasks())
}

func TestRemoveTask(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("Buy milk"))
	require.NoError(t, f.store.AddTask("Call Bob"))

	removed, err := f.store.RemoveTask(1)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", removed)

	view, err := f.store.ViewTasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"1. Call Bob"}, view.Lines())
	assert.Equal(t, []string{"Call Bob"}, f.fileTasks(t, "15/06/2025"))
}

func TestAddThenRemove_RestoresSequence(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("a"))
	require.NoError(t, f.store.AddTask("b"))
	before := f.store.Tasks()

	require.NoError(t, f.store.AddTask("temporary"))
	_, err := f.store.RemoveTask(len(f.store.Tasks()))
	require.NoError(t, err)

	assert.Equal(t, before, f.store.Tasks())
	assert.Equal(t, before, f.fileTasks(t, "15/06/2025"))
}

func TestRemoveAndUpdate_InvalidPosition(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("only"))

	for _, pos := range []int{0, -1, 2, 100} {
		_, err := f.store.RemoveTask(pos)
		assert.ErrorIs(t, err, plan.ErrInvalidPosition, "remove pos=%d", pos)
		assert.ErrorIs(t, f.store.UpdateTask(pos, "x"), plan.ErrInvalidPosition, "update pos=%d", pos)
	}
	assert.Equal(t, []string{"only"}, f.store.Tasks())
	assert.Equal(t, []string{"only"}, f.fileTasks(t, "15/06/2025"))
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	for _, task := range []string{"a", "b", "c"} {
		require.NoError(t, f.store.AddTask(task))
	}

	require.NoError(t, f.store.UpdateTask(2, "  B  "))

	view, err := f.store.ViewTasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, view.Tasks)
	assert.Equal(t, []string{"a", "B", "c"}, f.fileTasks(t, "15/06/2025"))
}

func TestMoveTask(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Save("16/06/2025", []string{"existing"}))
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("Buy milk"))
	require.NoError(t, f.store.AddTask("Call Bob"))

	res, err := f.store.MoveTask(1, "16/6/2025")
	require.NoError(t, err)
	assert.Equal(t, &MoveResult{Task: "Buy milk", From: "15/06/2025", To: "16/06/2025"}, res)

	assert.Equal(t, []string{"Call Bob"}, f.fileTasks(t, "15/06/2025"))
	assert.Equal(t, []string{"existing", "Buy milk"}, f.fileTasks(t, "16/06/2025"))
	assert.Equal(t, plan.Date("16/06/2025"), f.store.Date())
	assert.Equal(t, []string{"existing", "Buy milk"}, f.store.Tasks())
}

func TestMoveTask_SameDateMovesToEnd(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	for _, task := range []string{"a", "b", "c"} {
		require.NoError(t, f.store.AddTask(task))
	}

	_, err := f.store.MoveTask(1, "15/06/2025")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, f.store.Tasks())
	assert.Equal(t, []string{"b", "c", "a"}, f.fileTasks(t, "15/06/2025"))
}

func TestMoveTask_InvalidInputLeavesStateAlone(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("a"))

	_, err := f.store.MoveTask(1, "32/01/2025")
	assert.ErrorIs(t, err, plan.ErrInvalidDateFormat)

	_, err = f.store.MoveTask(5, "16/06/2025")
	assert.ErrorIs(t, err, plan.ErrInvalidPosition)

	assert.Equal(t, plan.Date("15/06/2025"), f.store.Date())
	assert.Equal(t, []string{"a"}, f.store.Tasks())
	assert.False(t, f.exists(t, "16/06/2025"))
}

func TestChangeDate(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("a"))
	require.NoError(t, f.store.AddTask("b"))

	res, err := f.store.ChangeDate("20/06/2025")
	require.NoError(t, err)
	assert.Equal(t, &ChangeDateResult{From: "15/06/2025", To: "20/06/2025", Tasks: 2}, res)

	assert.False(t, f.exists(t, "15/06/2025"))
	assert.Equal(t, []string{"a", "b"}, f.fileTasks(t, "20/06/2025"))
	assert.Equal(t, plan.Date("20/06/2025"), f.store.Date())
	assert.Equal(t, []string{"a", "b"}, f.store.Tasks())
}

func TestChangeDate_OverwritesTarget(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Save("20/06/2025", []string{"old1", "old2", "old3"}))
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("new"))

	res, err := f.store.ChangeDate("20/06/2025")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Replaced)
	assert.Equal(t, []string{"new"}, f.fileTasks(t, "20/06/2025"))
}

func TestChangeDate_SameDateKeepsPlan(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("a"))

	_, err := f.store.ChangeDate("15/06/2025")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, f.fileTasks(t, "15/06/2025"))
}

func TestChangeDate_InvalidDate(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("a"))

	_, err := f.store.ChangeDate("not a date")
	assert.ErrorIs(t, err, plan.ErrInvalidDateFormat)
	assert.Equal(t, plan.Date("15/06/2025"), f.store.Date())
	assert.True(t, f.exists(t, "15/06/2025"))
}

func TestChangeDate_TargetWriteFailureKeepsSource(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	require.NoError(t, f.store.AddTask("a"))
	f.fs.Fail[f.repo.Path("20/06/2025")] = errors.New("disk full")

	_, err := f.store.ChangeDate("20/06/2025")
	assert.ErrorIs(t, err, stores.ErrStorageWrite)
	assert.Equal(t, plan.Date("15/06/2025"), f.store.Date())
	assert.Equal(t, []string{"a"}, f.fileTasks(t, "15/06/2025"))
}

func TestSaveFailure_KeepsInMemoryMutation(t *testing.T) {
	f := newFixture(t)
	mustSetDate(t, f.store, "15/06/2025")
	f.fs.Fail[f.repo.Path("15/06/2025")] = errors.New("disk full")

	err := f.store.AddTask("a")
	assert.ErrorIs(t, err, stores.ErrStorageWrite)
	assert.Equal(t, []string{"a"}, f.store.Tasks())
	assert.Contains(t, f.warnings(), "Could not save plan")
}

func TestLoadFailure_TreatedAsEmpty(t *testing.T) {
	f := newFixture(t)
	f.fs.Fail[f.repo.Path("15/06/2025")] = errors.New("permission denied")

	d, err := f.store.SetDate("15/06/2025")
	require.NoError(t, err)
	assert.Equal(t, plan.Date("15/06/2025"), d)
	assert.Empty(t, f.store.Tasks())
	assert.Contains(t, f.warnings(), "Could not load plan, starting empty")
}

func TestListPlans(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.Save("02/01/2025", []string{"a"}))
	require.NoError(t, f.repo.Save("01/01/2025", []string{"b"}))

	dates, err := f.store.ListPlans()
	require.NoError(t, err)
	assert.Equal(t, []plan.Date{"01/01/2025", "02/01/2025"}, dates)
}

func TestListPlans_Error(t *testing.T) {
	f := newFixture(t)
	f.fs.Fail["/plans"] = errors.New("unreadable")

	_, err := f.store.ListPlans()
	assert.ErrorIs(t, err, stores.ErrStorageRead)
	assert.Contains(t, f.warnings(), "Could not list plans")
}

func TestParsePosition(t *testing.T) {
	n, err := ParsePosition(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, input := range []string{"", "two", "1.5"} {
		_, err := ParsePosition(input)
		assert.ErrorIs(t, err, plan.ErrInvalidPosition, "input=%q", input)
	}
}

func TestResolveDateInput(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, "15/06/2025", ResolveDateInput("today", clk))
	assert.Equal(t, "15/06/2025", ResolveDateInput(" TODAY ", clk))
	assert.Equal(t, "01/01/2025", ResolveDateInput(" 01/01/2025", clk))
}
