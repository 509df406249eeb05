package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/raid-herald/telemetry"
)

// parseCommand splits a prefixed message into a command word and its
// argument tail. ok is false when the message doesn't carry the prefix.
func parseCommand(content, prefix string) (cmd, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(content, prefix)
	cmd, args, _ = strings.Cut(rest, " ")
	if cmd == "" {
		return "", "", false
	}
	return strings.ToLower(cmd), strings.TrimSpace(args), true
}

// validPurgeCount parses the purge argument. Discord's bulk delete takes
// between 2 and 100 messages.
func validPurgeCount(arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 2 || n > 100 {
		return 0, false
	}
	return n, true
}

// cleanQuery strips the markdown decorations an announcement title carries
// so pasted gym names still match.
func cleanQuery(q string) string {
	return strings.NewReplacer("*", "", ".", "").Replace(strings.TrimSpace(q))
}

func (b *Bot) handleCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	cmd, args, ok := parseCommand(m.Content, b.Cfg.CommandPrefix)
	if !ok {
		return
	}
	switch cmd {
	case "ping":
		b.cmdPing(s, m)
	case "say":
		b.cmdSay(s, m, args)
	case "purge":
		b.cmdPurge(s, m, args)
	case "info":
		b.cmdInfo(s, m, args)
	}
}

func (b *Bot) cmdPing(s *discordgo.Session, m *discordgo.MessageCreate) {
	start := time.Now()
	sent, err := s.ChannelMessageSend(m.ChannelID, "Pinging...")
	if err != nil {
		slog.Warn("ping send failed", slog.Any("err", err))
		return
	}
	reply := fmt.Sprintf("Pong! Round trip %dms, heartbeat %dms.",
		time.Since(start).Milliseconds(),
		s.HeartbeatLatency().Milliseconds())
	if _, err := s.ChannelMessageEdit(m.ChannelID, sent.ID, reply); err != nil {
		slog.Warn("ping edit failed", slog.Any("err", err))
	}
}

func (b *Bot) cmdSay(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if args == "" {
		return
	}
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		slog.Warn("say: delete failed", slog.Any("err", err))
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, args); err != nil {
		slog.Warn("say: send failed", slog.Any("err", err))
	}
}

func (b *Bot) cmdPurge(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if !b.Cfg.PurgeEnabled {
		return
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		slog.Warn("purge: permission check failed", slog.Any("err", err))
		return
	}
	const need = discordgo.PermissionManageMessages | discordgo.PermissionManageChannels
	if perms&need != need {
		b.reply(s, m.ChannelID, "You need Manage Messages and Manage Channels to purge.")
		return
	}
	n, ok := validPurgeCount(args)
	if !ok {
		b.reply(s, m.ChannelID, "Give a count between 2 and 100.")
		return
	}
	// The invoking message counts toward n, and bulk delete caps a batch
	// at 100 ids, so fetch one less than asked.
	msgs, err := s.ChannelMessages(m.ChannelID, n-1, m.ID, "", "")
	if err != nil {
		slog.Warn("purge: history fetch failed", slog.Any("err", err))
		return
	}
	if err := s.ChannelMessagesBulkDelete(m.ChannelID, purgeIDs(m.ID, msgs)); err != nil {
		slog.Warn("purge: bulk delete failed", slog.Any("err", err))
	}
}

// purgeIDs builds the bulk-delete batch: the invoking message first, then
// the fetched history.
func purgeIDs(commandID string, msgs []*discordgo.Message) []string {
	ids := make([]string, 0, len(msgs)+1)
	ids = append(ids, commandID)
	for _, msg := range msgs {
		ids = append(ids, msg.ID)
	}
	return ids
}

func (b *Bot) cmdInfo(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	if telemetry.LookupRequests != nil {
		telemetry.LookupRequests.Inc()
	}
	query := cleanQuery(args)
	if query == "" {
		b.reply(s, m.ChannelID, "Give a gym name to look up.")
		return
	}
	finder := b.finder.Load()
	if finder == nil {
		b.reply(s, m.ChannelID, "Still connecting, try again shortly.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	p, err := finder.Find(ctx, query)
	if err != nil {
		slog.Error("raid lookup failed", slog.String("query", query), slog.Any("err", err))
		b.reply(s, m.ChannelID, "Lookup failed, try again.")
		return
	}
	if p == nil {
		if telemetry.LookupMisses != nil {
			telemetry.LookupMisses.Inc()
		}
		b.reply(s, m.ChannelID, fmt.Sprintf("No active raid found at **%s**.", query))
		return
	}
	embed := &discordgo.MessageEmbed{
		Title:       p.CleanLocation,
		Description: fmt.Sprintf("**%s**\nUntil **%s** (%s)", p.Creature, p.ClockColon, p.Remaining),
		Color:       embedColor,
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		slog.Warn("info reply failed", slog.Any("err", err))
	}
}

func (b *Bot) reply(s *discordgo.Session, channelID, text string) {
	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		slog.Warn("reply failed", slog.Any("err", err))
	}
}
