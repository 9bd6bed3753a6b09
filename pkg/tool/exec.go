package tool

import (
	"context"
	"os/exec"

	"go.uber.org/zap"

	"github.com/yumyai/neighbourann/logger"
)

// Executor runs one external command to completion and returns its combined output.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// CommandExecutor runs commands on the host, through "conda run -n Env" when Env is set.
type CommandExecutor struct {
	CondaExe string
	Env      string
}

func NewCommandExecutor(condaExe, env string) *CommandExecutor {
	return &CommandExecutor{CondaExe: condaExe, Env: env}
}

// Command returns the program and arguments actually executed for name and args.
func (e *CommandExecutor) Command(name string, args ...string) (string, []string) {
	if e.Env == "" {
		return name, args
	}
	wrapped := append([]string{"run", "-n", e.Env, name}, args...)
	return e.CondaExe, wrapped
}

func (e *CommandExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	prog, progArgs := e.Command(name, args...)
	logger.Debug("Executing", zap.String("cmd", prog), zap.Strings("args", progArgs))

	cmd := exec.CommandContext(ctx, prog, progArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, &ToolError{Tool: name, Args: args, Output: output, Err: err}
	}
	return output, nil
}
