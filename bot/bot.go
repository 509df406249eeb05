// Package bot connects to Discord, watches for raid announcements from the
// upstream poster, republishes them as enriched embeds, and serves a small
// set of prefix commands.
package bot

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/raid-herald/config"
	"github.com/onnwee/raid-herald/geocode"
	"github.com/onnwee/raid-herald/raid"
)

// Bot owns the Discord session and the dependencies the handlers need.
type Bot struct {
	Session *discordgo.Session
	DB      *sql.DB
	Geo     *geocode.Client
	Cfg     *config.Config

	// finder is installed on ready and swapped on every reconnect, while
	// lookups read it from command handler goroutines.
	finder atomic.Pointer[raid.Finder]
}

// New builds the session and wires the event handlers. Call Start to connect.
func New(cfg *config.Config, dbx *sql.DB, geo *geocode.Client) (*Bot, error) {
	if err := cfg.ValidateBotReady(); err != nil {
		return nil, err
	}
	s, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &Bot{Session: s, DB: dbx, Geo: geo, Cfg: cfg}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onGuildCreate)
	s.AddHandler(b.onGuildDelete)
	s.AddHandler(b.onMessageCreate)
	return b, nil
}

// Start opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	<-ctx.Done()
	return b.Session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.finder.Store(&raid.Finder{
		Source:   &sessionHistory{session: s},
		SelfID:   r.User.ID,
		Lookback: b.Cfg.HistoryLimit,
	})
	slog.Info("discord ready",
		slog.String("user", r.User.Username),
		slog.Int("guilds", len(r.Guilds)))
	b.updatePresence(s)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	slog.Info("joined guild", slog.String("guild", g.Name))
	b.updatePresence(s)
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	slog.Info("left guild", slog.String("guild_id", g.ID))
	b.updatePresence(s)
}

func (b *Bot) updatePresence(s *discordgo.Session) {
	status := fmt.Sprintf("on %d servers", len(s.State.Guilds))
	if err := s.UpdateGameStatus(0, status); err != nil {
		slog.Warn("update presence failed", slog.Any("err", err))
	}
}

type inboundKind int

const (
	inboundIgnore inboundKind = iota
	inboundAnnouncement
	inboundCommand
)

// classify decides what to do with an inbound message. Only the configured
// upstream poster's embeds count as announcements; every other bot-authored
// message is dropped so foreign bots cannot drive commands.
func (b *Bot) classify(selfID string, m *discordgo.MessageCreate) inboundKind {
	if m.Author == nil || (selfID != "" && m.Author.ID == selfID) {
		return inboundIgnore
	}
	if b.isAnnouncement(m) {
		return inboundAnnouncement
	}
	if m.Author.Bot {
		return inboundIgnore
	}
	return inboundCommand
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	var selfID string
	if s.State.User != nil {
		selfID = s.State.User.ID
	}
	switch b.classify(selfID, m) {
	case inboundAnnouncement:
		b.handleAnnouncement(context.Background(), s, m)
	case inboundCommand:
		b.handleCommand(s, m)
	}
}
