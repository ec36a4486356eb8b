// Package cmd provides a transport-agnostic command core: a command is something
// with a name, a description and Run(ctx, invocation). How it is parsed and
// dispatched (chat prefix, slash interaction, CLI) is defined by adapters that
// wrap this.
package cmd

import "context"

// Invocation carries the minimal input any command runner can pass: the name
// the command was invoked by, its arguments and an opaque payload. Adapters set
// Data to their own per-invocation context.
type Invocation struct {
	Name string
	Args []string
	Data interface{}
}

// Command is the universal contract: identity plus execution. Permissions,
// cooldowns and transport-specific parsing stay in middleware and adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

// Func adapts a plain function into a Command.
type Func struct {
	CommandName string
	Desc        string
	Fn          func(ctx context.Context, inv *Invocation) error
}

func (f *Func) Name() string        { return f.CommandName }
func (f *Func) Description() string { return f.Desc }

func (f *Func) Run(ctx context.Context, inv *Invocation) error {
	return f.Fn(ctx, inv)
}
