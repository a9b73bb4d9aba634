package host

import (
	"context"
	"fmt"
	"strings"
)

// fakeRunner records invocations and answers from canned results.
type fakeRunner struct {
	calls   []string
	fail    map[string]error
	outputs map[string]string
	paths   map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		fail:    make(map[string]error),
		outputs: make(map[string]string),
		paths:   make(map[string]string),
	}
}

func (r *fakeRunner) key(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	k := r.key(name, args...)
	r.calls = append(r.calls, k)
	if err, ok := r.fail[k]; ok {
		return err
	}
	return nil
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	k := r.key(name, args...)
	r.calls = append(r.calls, k)
	if err, ok := r.fail[k]; ok {
		return nil, err
	}
	return []byte(r.outputs[k]), nil
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	if p, ok := r.paths[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}
