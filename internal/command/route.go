package command

import (
	"context"
	"time"

	"emperror.dev/errors"

	"github.com/keshon/warden/pkg/cmd"
)

// Handler runs a command once every gate has passed.
type Handler func(ctx context.Context, c *Context) error

// Route declares a prefix command together with the gates that guard it.
type Route struct {
	Name    string
	Aliases []string
	// Usage is the argument synopsis shown by help, e.g. "kick <member> [reason]".
	Usage string
	Brief string
	Help  string
	// Permission is a capability name understood by perm.Has. Empty means open.
	Permission string
	// Cooldown is the per-user window between two invocations. Zero disables it.
	Cooldown time.Duration
	Handler  Handler
}

// routeCommand exposes a Route as a cmd.Command so it can be registered and
// wrapped by middleware.
type routeCommand struct {
	route Route
}

func (r *routeCommand) Name() string        { return r.route.Name }
func (r *routeCommand) Description() string { return r.route.Brief }

func (r *routeCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	c, err := contextOf(inv)
	if err != nil {
		return err
	}
	return r.route.Handler(ctx, c)
}

// RouteOf returns the route behind a possibly wrapped command.
func RouteOf(c cmd.Command) (Route, bool) {
	rc, ok := cmd.Root(c).(*routeCommand)
	if !ok {
		return Route{}, false
	}
	return rc.route, true
}

func contextOf(inv *cmd.Invocation) (*Context, error) {
	if inv == nil {
		return nil, errors.New("nil invocation")
	}
	c, ok := inv.Data.(*Context)
	if !ok || c == nil {
		return nil, errors.Errorf("invocation %q carries no command context", inv.Name)
	}
	return c, nil
}
