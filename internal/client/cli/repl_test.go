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

	calls    []string
	wallArgs []string
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
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) UpdateProfile(ctx context.Context) error {
	f.calls = append(f.calls, "update")
	return nil
}
func (f *fakeExec) SetPicture(ctx context.Context) error {
	f.calls = append(f.calls, "setpic")
	return nil
}
func (f *fakeExec) VerifyEmail(ctx context.Context) error {
	f.calls = append(f.calls, "verify")
	return nil
}
func (f *fakeExec) ResetPassword(ctx context.Context) error {
	f.calls = append(f.calls, "resetpw")
	return nil
}
func (f *fakeExec) Opportunities(ctx context.Context) error {
	f.calls = append(f.calls, "opportunities")
	return nil
}
func (f *fakeExec) Wall(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "wall")
	f.wallArgs = args
	return nil
}

func runScript(t *testing.T, f *fakeExec, script string) []string {
	t.Helper()

	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		out = append(out, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), f, func() string { return "" }, scanner)
	return out
}

func TestREPLDispatchesCommands(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "login\nwhoami\nupdate\nsetpic\nverify\nopps\nlogout\nexit\n")

	require.Equal(t, []string{"login", "whoami", "update", "setpic", "verify", "opportunities", "logout"}, f.calls)
}

func TestREPLWallArgs(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "wall show abc-123\nexit\n")

	require.Equal(t, []string{"wall"}, f.calls)
	require.Equal(t, []string{"show", "abc-123"}, f.wallArgs)
}

func TestREPLUnknownCommand(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "dance\nexit\n")

	require.Empty(t, f.calls)
	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "Unknown command:")
}

func TestREPLHelpFollowsLoginState(t *testing.T) {
	f := &fakeExec{}
	out := runScript(t, f, "help\nlogin\nhelp\nexit\n")

	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "register, login")
	require.Contains(t, joined, "whoami")
}

func TestREPLExitsOnEOF(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "whoami\n")
	require.Equal(t, []string{"whoami"}, f.calls)
}

func TestREPLSkipsBlankLines(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "\n\nwhoami\nquit\n")
	require.Equal(t, []string{"whoami"}, f.calls)
}
