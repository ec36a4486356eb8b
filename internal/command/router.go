package command

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"emperror.dev/errors"
	"github.com/rs/zerolog"

	"github.com/keshon/warden/internal/perm"
	"github.com/keshon/warden/pkg/cmd"
)

const (
	msgNoPermission = "You don't have permission to use this command!"
	msgGenericError = "An error occurred while processing the command."
)

// Router turns prefixed chat messages into route invocations and answers
// every failure that escapes a handler.
type Router struct {
	prefix      string
	registry    *cmd.Registry
	middlewares []cmd.Middleware
	log         zerolog.Logger
}

// NewRouter returns a router for prefix. Every registered route is wrapped
// with mws; the first one runs first.
func NewRouter(prefix string, log zerolog.Logger, mws ...cmd.Middleware) *Router {
	return &Router{
		prefix:      prefix,
		registry:    cmd.NewRegistry(),
		middlewares: mws,
		log:         log,
	}
}

func (r *Router) Prefix() string { return r.prefix }

func (r *Router) Register(routes ...Route) {
	for _, route := range routes {
		if route.Permission != "" && !perm.Known(route.Permission) {
			r.log.Error().Msgf("Command %s requires unknown permission %q; nobody can run it", route.Name, route.Permission)
		}
		c := cmd.Apply(&routeCommand{route: route}, r.middlewares...)
		r.registry.Register(c, route.Aliases...)
	}
}

// Routes lists registered routes sorted by name.
func (r *Router) Routes() []Route {
	all := r.registry.GetAll()
	out := make([]Route, 0, len(all))
	for _, c := range all {
		if route, ok := RouteOf(c); ok {
			out = append(out, route)
		}
	}
	return out
}

// Lookup finds a route by name or alias.
func (r *Router) Lookup(name string) (Route, bool) {
	c, ok := r.registry.Lookup(name)
	if !ok {
		return Route{}, false
	}
	return RouteOf(c)
}

// Dispatch handles content if it starts with the prefix. c is filled with
// the prefix and arguments. It reports whether the message was a command.
func (r *Router) Dispatch(ctx context.Context, c *Context, content string) bool {
	if !strings.HasPrefix(content, r.prefix) {
		return false
	}

	body := strings.TrimPrefix(content, r.prefix)
	args := NewArgReader(body)
	name, ok := args.Next()
	if !ok || startsWithSpace(body) {
		return false
	}
	rawArgs := args.Rest()

	c.Prefix = r.prefix
	c.Args = NewArgReader(rawArgs)

	command, found := r.registry.Lookup(name)
	if !found {
		r.HandleError(ctx, c, &CommandNotFoundError{Name: name})
		return true
	}

	inv := &cmd.Invocation{
		Name: name,
		Args: strings.Fields(rawArgs),
		Data: c,
	}
	if err := command.Run(ctx, inv); err != nil {
		r.HandleError(ctx, c, err)
	}
	return true
}

// HandleError answers a failed invocation. Expected conditions get their own
// text; anything else is logged and answered generically.
func (r *Router) HandleError(ctx context.Context, c *Context, err error) {
	if err == nil {
		return
	}

	var (
		notFound *CommandNotFoundError
		missing  *MissingPermissionError
		cooldown *CooldownError
		msg      string
	)
	switch {
	case errors.As(err, &notFound):
		msg = fmt.Sprintf("Command not found. Use %shelp to see available commands.", r.prefix)
	case errors.As(err, &missing):
		msg = msgNoPermission
	case errors.As(err, &cooldown):
		msg = fmt.Sprintf("This command is on cooldown. Try again in %.2fs", cooldown.RetryAfter.Seconds())
	default:
		r.log.Error().Msgf("Error occurred: %v", err)
		msg = msgGenericError
	}

	if c == nil || c.Reply == nil {
		return
	}
	if serr := c.Reply.Send(ctx, msg); serr != nil {
		r.log.Warn().Err(serr).Msg("Failed to send error reply")
	}
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
