// Package toolchaintest provides a scriptable in-memory Runner for testing
// the layers above the external toolchain without a cross compiler.
package toolchaintest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flashtalk/fwbuild/internal/toolchain"
)

// Call records one invocation the fake runner received.
type Call struct {
	Path string
	Args []string
}

// Rule customizes the response for invocations whose joined argv contains
// Substring. The first matching rule wins.
type Rule struct {
	Substring string
	Output    toolchain.Output
	Err       error
}

// Runner is a fake toolchain.Runner. By default every invocation succeeds
// with empty output; it also emulates the side effects the build cache
// depends on ("-o <path>" creates the output file, "ar rcs <archive>"
// creates the archive) so staleness logic can be exercised for real.
type Runner struct {
	mu    sync.Mutex
	calls []Call
	rules []Rule

	// DisableSideEffects turns off output-file creation.
	DisableSideEffects bool
}

// New returns an empty fake runner.
func New() *Runner {
	return &Runner{}
}

// Stub appends a response rule.
func (r *Runner) Stub(substring string, out toolchain.Output, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, Rule{Substring: substring, Output: out, Err: err})
}

// Calls returns a copy of all recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsMatching counts invocations whose joined argv contains substring.
func (r *Runner) CallsMatching(substring string) int {
	n := 0
	for _, c := range r.Calls() {
		if strings.Contains(c.Path+" "+strings.Join(c.Args, " "), substring) {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps rules.
func (r *Runner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Run implements toolchain.Runner.
func (r *Runner) Run(_ context.Context, cmd toolchain.Command) (toolchain.Output, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Path: cmd.Path, Args: append([]string(nil), cmd.Args...)})
	rules := append([]Rule(nil), r.rules...)
	r.mu.Unlock()

	joined := cmd.Path + " " + strings.Join(cmd.Args, " ")
	for _, rule := range rules {
		if strings.Contains(joined, rule.Substring) {
			return rule.Output, rule.Err
		}
	}

	if !r.DisableSideEffects {
		r.applySideEffects(cmd)
	}
	return toolchain.Output{}, nil
}

// applySideEffects creates the files a successful real invocation would.
func (r *Runner) applySideEffects(cmd toolchain.Command) {
	for i, arg := range cmd.Args {
		if arg == "-o" && i+1 < len(cmd.Args) {
			writeFile(cmd.Args[i+1])
		}
	}
	// ar rcs <archive> <objects...>
	if len(cmd.Args) >= 2 && cmd.Args[0] == "rcs" {
		writeFile(cmd.Args[1])
	}
	// objcopy -O binary <in> <out>
	if len(cmd.Args) >= 4 && cmd.Args[0] == "-O" && cmd.Args[1] == "binary" {
		writeFile(cmd.Args[3])
	}
}

func writeFile(path string) {
	if path == "/dev/null" || path == "" {
		return
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("fake artifact\n"), 0o644)
}
