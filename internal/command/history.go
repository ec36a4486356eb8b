package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emperror.dev/errors"

	"github.com/keshon/warden/internal/storage"
)

const (
	discordMaxMessageLength = 2000
	codeLeftBlockWrapper    = "```md"
	codeRightBlockWrapper   = "```"
)

var maxContentLength = discordMaxMessageLength - len(codeLeftBlockWrapper) - len(codeRightBlockWrapper) - 2

// HistoryReader returns a guild's recent commands, oldest first.
type HistoryReader interface {
	FetchCommandHistory(guildID string) ([]storage.CommandHistoryRecord, error)
}

// HistoryRoute shows the guild's recent commands, newest first.
func HistoryRoute(r *Router, store HistoryReader) Route {
	return Route{
		Name:       "log",
		Usage:      "log",
		Brief:      "Review recent commands",
		Help:       "Lists the most recent commands used in this server, newest first.",
		Permission: "administrator",
		Cooldown:   3 * time.Second,
		Handler: func(ctx context.Context, c *Context) error {
			records, err := store.FetchCommandHistory(c.GuildID)
			if err != nil {
				return errors.WrapIf(err, "fetch command history")
			}
			if len(records) == 0 {
				return c.Reply.Send(ctx, "No command history found.")
			}
			return c.Reply.Send(ctx, codeLeftBlockWrapper+"\n"+formatHistory(records, r.Prefix())+codeRightBlockWrapper)
		},
	}
}

func formatHistory(records []storage.CommandHistoryRecord, prefix string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-19s\t%-15s\t%s\n", "# Datetime", "# Username", "# Command"))

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		invocation := prefix + r.Command
		if r.Param != "" {
			invocation += " " + r.Param
		}
		line := fmt.Sprintf("%-19s\t%-15s\t%s\n", r.Datetime.Format("2006-01-02 15:04:05"), r.Username, invocation)
		if b.Len()+len(line) > maxContentLength {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}
