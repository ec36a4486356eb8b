package moderation

import (
	"context"
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/warden/internal/command"
	"github.com/keshon/warden/internal/discordtypes"
	"github.com/keshon/warden/internal/notify"
	"github.com/keshon/warden/internal/perm"
	"github.com/keshon/warden/internal/storage"
)

const modlogSize = 10

// outcome holds the user-facing texts of one moderation action.
type outcome struct {
	rejected  string
	forbidden string
	failed    string
	errLog    string
}

var (
	kickOutcome = outcome{
		rejected:  "You can't kick someone with a higher or equal role!",
		forbidden: "I don't have permission to kick this member!",
		failed:    "An error occurred while trying to kick the member.",
		errLog:    "Error kicking member",
	}
	banOutcome = outcome{
		rejected:  "You can't ban someone with a higher or equal role!",
		forbidden: "I don't have permission to ban this member!",
		failed:    "An error occurred while trying to ban the member.",
		errLog:    "Error banning member",
	}
	addRoleOutcome = outcome{
		rejected:  "You can't add a role that is higher or equal to your highest role!",
		forbidden: "I don't have permission to manage roles!",
		failed:    "An error occurred while trying to add the role.",
		errLog:    "Error adding role",
	}
	removeRoleOutcome = outcome{
		rejected:  "You can't remove a role that is higher or equal to your highest role!",
		forbidden: "I don't have permission to manage roles!",
		failed:    "An error occurred while trying to remove the role.",
		errLog:    "Error removing role",
	}
	nicknameOutcome = outcome{
		rejected:  "You can't change the nickname of someone with a higher or equal role!",
		forbidden: "I don't have permission to change nicknames!",
		failed:    "An error occurred while trying to change the nickname.",
		errLog:    "Error changing nickname",
	}
)

func (m *Module) kick(ctx context.Context, c *command.Context) error {
	target, err := m.member(ctx, c)
	if err != nil {
		return err
	}
	reason := c.Args.Rest()

	return m.perform(ctx, c, kickOutcome, perm.Outranks(c.Author.TopRank, target.TopRank),
		func() error { return m.mod.Kick(ctx, c.GuildID, target.ID, reason) },
		func() (*discordgo.MessageEmbed, storage.AuditEntry) {
			m.log.Info().Msgf("Member %s was kicked by %s for reason: %s", target.Username, c.Author.Username, orNone(reason))
			return notify.Kicked(target, c.Author, reason), m.entry(c, "kick", target.ID, target.Username, reason)
		})
}

func (m *Module) ban(ctx context.Context, c *command.Context) error {
	target, err := m.member(ctx, c)
	if err != nil {
		return err
	}
	reason := c.Args.Rest()

	return m.perform(ctx, c, banOutcome, perm.Outranks(c.Author.TopRank, target.TopRank),
		func() error { return m.mod.Ban(ctx, c.GuildID, target.ID, reason) },
		func() (*discordgo.MessageEmbed, storage.AuditEntry) {
			m.log.Info().Msgf("Member %s was banned by %s for reason: %s", target.Username, c.Author.Username, orNone(reason))
			return notify.Banned(target, c.Author, reason), m.entry(c, "ban", target.ID, target.Username, reason)
		})
}

func (m *Module) addRole(ctx context.Context, c *command.Context) error {
	target, role, err := m.memberAndRole(ctx, c)
	if err != nil {
		return err
	}

	return m.perform(ctx, c, addRoleOutcome, perm.Outranks(c.Author.TopRank, role.Rank),
		func() error { return m.mod.AddRole(ctx, c.GuildID, target.ID, role.ID) },
		func() (*discordgo.MessageEmbed, storage.AuditEntry) {
			m.log.Info().Msgf("Role %s added to %s by %s", role.Name, target.Username, c.Author.Username)
			return notify.RoleAdded(target, role), m.entry(c, "addrole", target.ID, target.Username, "role "+role.Name)
		})
}

func (m *Module) removeRole(ctx context.Context, c *command.Context) error {
	target, role, err := m.memberAndRole(ctx, c)
	if err != nil {
		return err
	}

	return m.perform(ctx, c, removeRoleOutcome, perm.Outranks(c.Author.TopRank, role.Rank),
		func() error { return m.mod.RemoveRole(ctx, c.GuildID, target.ID, role.ID) },
		func() (*discordgo.MessageEmbed, storage.AuditEntry) {
			m.log.Info().Msgf("Role %s removed from %s by %s", role.Name, target.Username, c.Author.Username)
			return notify.RoleRemoved(target, role), m.entry(c, "removerole", target.ID, target.Username, "role "+role.Name)
		})
}

func (m *Module) nickname(ctx context.Context, c *command.Context) error {
	target, err := m.member(ctx, c)
	if err != nil {
		return err
	}
	nick := c.Args.Rest()

	return m.perform(ctx, c, nicknameOutcome, perm.Outranks(c.Author.TopRank, target.TopRank),
		func() error { return m.mod.SetNickname(ctx, c.GuildID, target.ID, nick) },
		func() (*discordgo.MessageEmbed, storage.AuditEntry) {
			m.log.Info().Msgf("Nickname for %s was changed to %s by %s", target.Username, orNone(nick), c.Author.Username)
			detail := "nickname reset"
			if nick != "" {
				detail = "nickname " + nick
			}
			return notify.NicknameChanged(target, nick), m.entry(c, "nickname", target.ID, target.Username, detail)
		})
}

func (m *Module) modlog(ctx context.Context, c *command.Context) error {
	var entries []storage.AuditEntry
	if m.audit != nil {
		var err error
		entries, err = m.audit.FetchAudit(c.GuildID, modlogSize)
		if err != nil {
			return errors.WrapIf(err, "fetch moderation log")
		}
	}

	lines := make([]notify.AuditLine, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		lines = append(lines, notify.AuditLine{
			When:   e.Datetime,
			Action: e.Action,
			Actor:  e.ActorName,
			Target: e.Target,
			Detail: e.Detail,
		})
	}
	return c.Reply.SendEmbed(ctx, notify.ModerationLog(lines))
}

// perform runs the shared tail of every action: hierarchy rejection, the
// mutation with its failure texts, then the success embed and audit entry.
func (m *Module) perform(
	ctx context.Context,
	c *command.Context,
	o outcome,
	allowed bool,
	mutate func() error,
	success func() (*discordgo.MessageEmbed, storage.AuditEntry),
) error {
	if !allowed {
		return c.Reply.Send(ctx, o.rejected)
	}

	if err := mutate(); err != nil {
		m.log.Error().Msgf("%s: %v", o.errLog, err)
		if errors.Is(err, discordtypes.ErrForbidden) {
			return c.Reply.Send(ctx, o.forbidden)
		}
		return c.Reply.Send(ctx, o.failed)
	}

	embed, entry := success()
	m.record(c.GuildID, entry)
	return c.Reply.SendEmbed(ctx, embed)
}

func (m *Module) member(ctx context.Context, c *command.Context) (discordtypes.Member, error) {
	ref, err := c.Args.Require("member")
	if err != nil {
		return discordtypes.Member{}, err
	}
	member, err := m.dir.Member(ctx, c.GuildID, ref)
	if err != nil {
		return discordtypes.Member{}, lookupError("Member", ref, err)
	}
	return member, nil
}

func (m *Module) memberAndRole(ctx context.Context, c *command.Context) (discordtypes.Member, discordtypes.Role, error) {
	target, err := m.member(ctx, c)
	if err != nil {
		return discordtypes.Member{}, discordtypes.Role{}, err
	}

	ref := strings.Trim(c.Args.Rest(), `"`)
	if ref == "" {
		return discordtypes.Member{}, discordtypes.Role{}, &command.ArgumentError{Param: "role", Reason: "is a required argument that is missing"}
	}
	role, err := m.dir.Role(ctx, c.GuildID, ref)
	if err != nil {
		return discordtypes.Member{}, discordtypes.Role{}, lookupError("Role", ref, err)
	}
	return target, role, nil
}

func (m *Module) entry(c *command.Context, action, targetID, target, detail string) storage.AuditEntry {
	return storage.AuditEntry{
		Action:    action,
		ActorID:   c.Author.ID,
		ActorName: c.Author.Username,
		TargetID:  targetID,
		Target:    target,
		Detail:    detail,
		Datetime:  m.now(),
	}
}

func (m *Module) record(guildID string, entry storage.AuditEntry) {
	if m.audit == nil {
		return
	}
	if err := m.audit.AppendAudit(guildID, entry); err != nil {
		m.log.Warn().Err(err).Msgf("Failed to record %s in moderation log", entry.Action)
	}
}

func lookupError(kind, ref string, err error) error {
	if errors.Is(err, discordtypes.ErrNotFound) {
		return &command.ArgumentError{Param: kind, Value: ref, Reason: "not found"}
	}
	return errors.WrapIf(err, fmt.Sprintf("look up %s", strings.ToLower(kind)))
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
