package tool

import (
	"context"
	"sync"
)

// fakeExecutor records calls and runs a callback in place of a process.
type fakeExecutor struct {
	mu    sync.Mutex
	calls [][]string
	run   func(name string, args []string) ([]byte, error)
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{name}, args...))
	f.mu.Unlock()

	if f.run == nil {
		return nil, nil
	}
	return f.run(name, args)
}

// flagValue returns the argument following flag, or "".
func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
