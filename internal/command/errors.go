package command

import (
	"fmt"
	"strings"
	"time"
)

type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("Command %q is not found", e.Name)
}

// MissingPermissionError is returned by the permission gate before the
// handler runs.
type MissingPermissionError struct {
	Missing []string
}

func (e *MissingPermissionError) Error() string {
	return fmt.Sprintf("You are missing %s permission(s) to run this command.", strings.Join(e.Missing, ", "))
}

type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("You are on cooldown. Try again in %.2fs", e.RetryAfter.Seconds())
}

// ArgumentError means an argument was missing or could not be converted.
type ArgumentError struct {
	Param  string
	Value  string
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s %s.", e.Param, e.Reason)
	}
	return fmt.Sprintf("%s %q %s.", e.Param, e.Value, e.Reason)
}
