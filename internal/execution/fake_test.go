package execution

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/eparenti/eqa-sub002/internal/browser"
	"github.com/eparenti/eqa-sub002/internal/remote"
)

// fakeRunner scripts remote command outcomes by substring match, in
// registration order. Unmatched commands succeed with empty output.
type fakeRunner struct {
	mu        sync.Mutex
	rules     []fakeRule
	commands  []string
	copies    []string
	connected bool
	copyFails bool
}

type fakeRule struct {
	contains string
	result   remote.CommandResult
	// fn, when set, computes the result from the 1-based match count.
	fn    func(call int) remote.CommandResult
	calls int
	// remaining limits how many times the rule fires; negative is unlimited.
	remaining int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{connected: true}
}

func (f *fakeRunner) on(contains string, result remote.CommandResult) *fakeRunner {
	f.rules = append(f.rules, fakeRule{contains: contains, result: result, remaining: -1})
	return f
}

// onTimes scripts a rule that fires only for a limited number of matches,
// letting tests change behavior between cycles.
func (f *fakeRunner) onTimes(contains string, times int, result remote.CommandResult) *fakeRunner {
	f.rules = append(f.rules, fakeRule{contains: contains, result: result, remaining: times})
	return f
}

// onFunc scripts a rule whose result depends on how many times it matched.
func (f *fakeRunner) onFunc(contains string, fn func(call int) remote.CommandResult) *fakeRunner {
	f.rules = append(f.rules, fakeRule{contains: contains, fn: fn, remaining: -1})
	return f
}

func (f *fakeRunner) Run(ctx context.Context, command string, timeout time.Duration) remote.CommandResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)
	for i := range f.rules {
		rule := &f.rules[i]
		if rule.remaining == 0 || !strings.Contains(command, rule.contains) {
			continue
		}
		if rule.remaining > 0 {
			rule.remaining--
		}
		if rule.fn != nil {
			rule.calls++
			return rule.fn(rule.calls)
		}
		return rule.result
	}
	return remote.CommandResult{Success: true, ReturnCode: 0}
}

func (f *fakeRunner) CopyFile(localPath, remotePath string) remote.CopyResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copies = append(f.copies, remotePath)
	if f.copyFails {
		return remote.CopyResult{Success: false, Stderr: "copy refused"}
	}
	return remote.CopyResult{Success: true}
}

func (f *fakeRunner) TestConnection() bool {
	return f.connected
}

func (f *fakeRunner) ran(contains string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, c := range f.commands {
		if strings.Contains(c, contains) {
			count++
		}
	}
	return count
}

// fakePool wraps a single fake runner into a remote.Pool-compatible pool.
func fakePool(runner remote.CommandRunner, size int) *remote.Pool {
	pool, err := remote.NewPool(size, func() (remote.CommandRunner, error) {
		return runner, nil
	})
	if err != nil {
		panic(err)
	}
	return pool
}

// fakeBrowser is a scriptable browser.Client.
type fakeBrowser struct {
	connectOK bool
	navOK     bool
	authOK    bool
	closed    bool
}

func (b *fakeBrowser) Connect(headless bool) bool { return b.connectOK }

func (b *fakeBrowser) Navigate(url string) browser.Result {
	return browser.Result{Success: b.navOK, Message: "navigate"}
}

func (b *fakeBrowser) Click(selector string) browser.Result {
	return browser.Result{Success: true}
}

func (b *fakeBrowser) Fill(selector, value string) browser.Result {
	return browser.Result{Success: true}
}

func (b *fakeBrowser) Screenshot(name string) browser.Result {
	return browser.Result{Success: true, Path: "/tmp/" + name + ".png"}
}

func (b *fakeBrowser) Authenticate(username, password string, selectors browser.Selectors) browser.Result {
	return browser.Result{Success: b.authOK, Message: "auth"}
}

func (b *fakeBrowser) IsVisible(selector string) bool { return true }

func (b *fakeBrowser) Close() { b.closed = true }
