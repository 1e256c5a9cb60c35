package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
}

func newFakeExec() *fakeExec {
	return &fakeExec{args: map[string][]string{}}
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}

func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}

func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}

func (f *fakeExec) Select(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "select")
	f.args["select"] = args
	return nil
}

func (f *fakeExec) Submit(ctx context.Context) error {
	f.calls = append(f.calls, "submit")
	return nil
}

func (f *fakeExec) History(ctx context.Context) error {
	f.calls = append(f.calls, "history")
	return nil
}

func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "delete")
	f.args["delete"] = args
	return nil
}

func (f *fakeExec) Download(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "download")
	f.args["download"] = args
	return nil
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"select /tmp/cat.png",
		"submit",
		"h",
		"delete 3",
		"download abc123 out.png",
		"whoami",
		"",
		"frobnicate",
		"exit",
	}, "\n")

	exec := newFakeExec()
	sc := bufio.NewScanner(strings.NewReader(input))

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	require.Equal(t,
		[]string{"login", "select", "submit", "history", "delete", "download", "whoami"},
		exec.calls)
	require.Equal(t, []string{"/tmp/cat.png"}, exec.args["select"])
	require.Equal(t, []string{"3"}, exec.args["delete"])
	require.Equal(t, []string{"abc123", "out.png"}, exec.args["download"])
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := newFakeExec()
	sc := bufio.NewScanner(strings.NewReader("history\n"))

	runREPL(context.Background(), exec, func() string { return "" }, sc)
	require.Equal(t, []string{"history"}, exec.calls)
}
