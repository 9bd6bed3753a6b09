package tool

import (
	"fmt"
	"strings"
)

// ToolError is a failed external command, with whatever it printed.
type ToolError struct {
	Tool   string
	Args   []string
	Output []byte
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("failed to execute %s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += " - " + out
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// ParseError is tool output that could not be read into records.
type ParseError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Path, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }
