package cmd

// Middleware wraps a command (logging, permission gate, cooldown).
// The wrapped value is still a Command.
type Middleware func(Command) Command

// Apply wraps c with mws so that the first middleware in the list is the
// outermost one and runs first.
func Apply(c Command, mws ...Middleware) Command {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		c = mws[i](c)
	}
	return c
}
