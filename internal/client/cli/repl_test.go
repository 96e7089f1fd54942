package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	user  bool
	calls []string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.err
}

func (f *fakeExec) hasUser() bool { return f.user }

func (f *fakeExec) SignIn(_ context.Context, args []string) error {
	f.user = true
	return f.record("signin", args)
}

func (f *fakeExec) Users(_ context.Context, a []string) error  { return f.record("users", a) }
func (f *fakeExec) Use(_ context.Context, a []string) error    { return f.record("use", a) }
func (f *fakeExec) New(_ context.Context, a []string) error    { return f.record("new", a) }
func (f *fakeExec) Edit(_ context.Context, a []string) error   { return f.record("edit", a) }
func (f *fakeExec) Remove(_ context.Context, a []string) error { return f.record("rm", a) }
func (f *fakeExec) List(_ context.Context, a []string) error   { return f.record("ls", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error   { return f.record("show", a) }
func (f *fakeExec) Find(_ context.Context, a []string) error   { return f.record("find", a) }
func (f *fakeExec) Tags(_ context.Context, a []string) error   { return f.record("tags", a) }
func (f *fakeExec) Tag(_ context.Context, a []string) error    { return f.record("tag", a) }
func (f *fakeExec) Untag(_ context.Context, a []string) error  { return f.record("untag", a) }
func (f *fakeExec) Attach(_ context.Context, a []string) error { return f.record("attach", a) }
func (f *fakeExec) Sync(_ context.Context, a []string) error   { return f.record("sync", a) }
func (f *fakeExec) Status(_ context.Context, a []string) error { return f.record("status", a) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{
		"help",
		"signin",
		"help",
		"",
		"new Shopping list",
		"ls",
		"show n1",
		"find milk eggs",
		"tag n1 work",
		"untag n1 work",
		"attach n1 file:///a.png",
		"sync",
		"status",
		"foobar",
		"exit",
		"ls",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(s)" }, rdr(input))

	assert.Equal(t, []string{
		"signin",
		"new Shopping list",
		"ls",
		"show n1",
		"find milk eggs",
		"tag n1 work",
		"untag n1 work",
		"attach n1 file:///a.png",
		"sync",
		"status",
	}, exec.calls)

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Available commands: signin, users, use, status, exit")
	assert.Contains(t, joined, "Available commands: new,")
	assert.Contains(t, joined, "Unknown command: foobar")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_ReportsErrorsAndUsage(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("sync\n"))

	exec2 := &fakeExec{err: usageError("rm <noteId>")}
	runREPL(context.Background(), exec2, func() string { return "" }, rdr("rm"))

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Error: boom")
	assert.Contains(t, joined, "Usage: rm <noteId>")
	assert.Equal(t, []string{"rm"}, exec2.calls)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	captureOutput(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(""))
	assert.Empty(t, exec.calls)
}
