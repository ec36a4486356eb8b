package discord

import (
	"context"
	"math"
	"regexp"
	"strings"

	"emperror.dev/errors"
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/warden/internal/discordtypes"
)

// ownerRank puts the guild owner above every role.
const ownerRank = math.MaxInt32

var (
	memberMention = regexp.MustCompile(`^<@!?(\d+)>$`)
	roleMention   = regexp.MustCompile(`^<@&(\d+)>$`)
	snowflake     = regexp.MustCompile(`^\d{15,21}$`)
)

// directory resolves command arguments against guild state, falling back to
// REST when the state cache misses.
type directory struct {
	dg *discordgo.Session
}

func (d *directory) guild(ctx context.Context, guildID string) (*discordgo.Guild, error) {
	if g, err := d.dg.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g, nil
	}
	g, err := d.dg.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err)
	}
	return g, nil
}

func (d *directory) Member(ctx context.Context, guildID, ref string) (discordtypes.Member, error) {
	guild, err := d.guild(ctx, guildID)
	if err != nil {
		return discordtypes.Member{}, err
	}

	ref = strings.TrimSpace(ref)
	if id := mentionedID(memberMention, ref); id != "" {
		m, err := d.memberByID(ctx, guildID, id)
		if err != nil {
			return discordtypes.Member{}, err
		}
		return memberSnapshot(guild, m), nil
	}

	if m := findMemberByName(guild.Members, ref); m != nil {
		return memberSnapshot(guild, m), nil
	}

	found, err := d.dg.GuildMembersSearch(guildID, ref, 5, discordgo.WithContext(ctx))
	if err != nil {
		return discordtypes.Member{}, classify(err)
	}
	if m := findMemberByName(found, ref); m != nil {
		return memberSnapshot(guild, m), nil
	}
	return discordtypes.Member{}, errors.WithStack(discordtypes.ErrNotFound)
}

func (d *directory) Role(ctx context.Context, guildID, ref string) (discordtypes.Role, error) {
	guild, err := d.guild(ctx, guildID)
	if err != nil {
		return discordtypes.Role{}, err
	}
	r := findRole(guild.Roles, strings.TrimSpace(ref))
	if r == nil {
		return discordtypes.Role{}, errors.WithStack(discordtypes.ErrNotFound)
	}
	return discordtypes.Role{ID: r.ID, Name: r.Name, Rank: r.Position}, nil
}

func (d *directory) memberByID(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := d.dg.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	m, err := d.dg.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify(err)
	}
	return m, nil
}

// mentionedID accepts either a mention matching re or a bare snowflake.
func mentionedID(re *regexp.Regexp, ref string) string {
	if m := re.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	if snowflake.MatchString(ref) {
		return ref
	}
	return ""
}

// findMemberByName matches username, global name, then nickname,
// ignoring case.
func findMemberByName(members []*discordgo.Member, name string) *discordgo.Member {
	if name == "" {
		return nil
	}
	for _, m := range members {
		if m == nil || m.User == nil {
			continue
		}
		if strings.EqualFold(m.User.Username, name) || strings.EqualFold(m.User.GlobalName, name) {
			return m
		}
	}
	for _, m := range members {
		if m != nil && m.Nick != "" && strings.EqualFold(m.Nick, name) {
			return m
		}
	}
	return nil
}

func findRole(roles []*discordgo.Role, ref string) *discordgo.Role {
	id := mentionedID(roleMention, ref)
	for _, r := range roles {
		if id != "" && r.ID == id {
			return r
		}
	}
	for _, r := range roles {
		if strings.EqualFold(r.Name, ref) {
			return r
		}
	}
	return nil
}

// memberSnapshot computes guild-level permissions and the top role position.
func memberSnapshot(guild *discordgo.Guild, m *discordgo.Member) discordtypes.Member {
	out := discordtypes.Member{Nick: m.Nick}
	if m.User != nil {
		out = userSnapshot(m.User)
		out.Nick = m.Nick
	}

	if guild.OwnerID != "" && guild.OwnerID == out.ID {
		out.TopRank = ownerRank
		out.Permissions = discordgo.PermissionAll
		return out
	}

	held := make(map[string]bool, len(m.Roles))
	for _, id := range m.Roles {
		held[id] = true
	}
	for _, r := range guild.Roles {
		switch {
		case r.ID == guild.ID:
			out.Permissions |= r.Permissions
		case held[r.ID]:
			out.Permissions |= r.Permissions
			if r.Position > out.TopRank {
				out.TopRank = r.Position
			}
		}
	}
	return out
}

func userSnapshot(u *discordgo.User) discordtypes.Member {
	return discordtypes.Member{ID: u.ID, Username: u.Username, Bot: u.Bot}
}
