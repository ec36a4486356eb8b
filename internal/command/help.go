package command

import (
	"context"
	"fmt"

	"github.com/keshon/warden/internal/notify"
)

// HelpRoute lists the router's commands, or describes one of them.
func HelpRoute(r *Router) Route {
	return Route{
		Name:  "help",
		Usage: "help [command]",
		Brief: "Shows this message",
		Help:  "Shows every command, or the usage and description of one command.",
		Handler: func(ctx context.Context, c *Context) error {
			if name, ok := c.Args.Next(); ok {
				route, found := r.Lookup(name)
				if !found {
					return c.Reply.Send(ctx, fmt.Sprintf("No command called %q found.", name))
				}
				text := route.Help
				if text == "" {
					text = route.Brief
				}
				return c.Reply.SendEmbed(ctx, notify.CommandHelp(r.Prefix(), usageOf(route), text))
			}

			routes := r.Routes()
			entries := make([]notify.HelpEntry, 0, len(routes))
			for _, route := range routes {
				entries = append(entries, notify.HelpEntry{Usage: usageOf(route), Brief: route.Brief})
			}
			return c.Reply.SendEmbed(ctx, notify.Help(r.Prefix(), entries))
		},
	}
}

func usageOf(route Route) string {
	if route.Usage != "" {
		return route.Usage
	}
	return route.Name
}
