package bot

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/onnwee/raid-herald/db"
	"github.com/onnwee/raid-herald/geocode"
	"github.com/onnwee/raid-herald/raid"
	"github.com/onnwee/raid-herald/telemetry"
)

const embedColor = 0xd28ef6

// isAnnouncement reports whether a message is a raid announcement from the
// configured upstream poster.
func (b *Bot) isAnnouncement(m *discordgo.MessageCreate) bool {
	return m.Author.Bot &&
		m.Author.Username == b.Cfg.HuntrBotName &&
		len(m.Embeds) > 0
}

// handleAnnouncement runs the pipeline for one upstream embed: extract,
// enrich, repost, register the gym, and optionally delete the source post.
func (b *Bot) handleAnnouncement(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx = telemetry.WithCorrelation(ctx, uuid.NewString())
	log := telemetry.LoggerWithCorr(ctx)
	if telemetry.AnnouncementsSeen != nil {
		telemetry.AnnouncementsSeen.Inc()
	}

	var r *raid.Raid
	var err error
	telemetry.TimeFunc(telemetry.PipelineDuration, func() {
		r, err = raid.FromAnnouncement(ctx, announcementFromEmbed(m), b.Geo, b.Cfg.ShortenOptions())
	})
	if err != nil {
		if telemetry.ParseFailures != nil {
			telemetry.ParseFailures.Inc()
		}
		if errors.Is(err, raid.ErrMalformedAnnouncement) || errors.Is(err, raid.ErrMissingCoordinates) {
			log.Warn("announcement dropped", slog.Any("err", err))
			return
		}
		log.Error("announcement pipeline failed", slog.Any("err", err))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       r.CleanLocation,
		Description: r.Description(),
		Color:       embedColor,
	}
	if r.ThumbURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: r.ThumbURL}
	}
	if b.Cfg.MapImageEnabled && b.Cfg.GmapsAPIKey != "" {
		embed.Image = &discordgo.MessageEmbedImage{
			URL: geocode.StaticMapURL(r.Coordinates, b.Cfg.GmapsAPIKey),
		}
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Error("repost failed", slog.String("channel", m.ChannelID), slog.Any("err", err))
		return
	}
	if telemetry.AnnouncementsParsed != nil {
		telemetry.AnnouncementsParsed.Inc()
	}
	log.Info("raid reposted",
		slog.String("creature", r.Creature),
		slog.String("location", r.CleanLocation),
		slog.Time("expiry", r.Expiry))

	if b.Cfg.ReplaceSourcePost {
		if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
			log.Warn("source delete failed", slog.Any("err", err))
		}
	}

	// The registry write is best effort and must not delay the repost path.
	go b.registerGym(ctx, r)
}

// registerGym records the gym location on first sight; later writes with the
// same name are no-ops.
func (b *Bot) registerGym(ctx context.Context, r *raid.Raid) {
	log := telemetry.LoggerWithCorr(ctx)
	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil {
		log.Warn("gym register: bad latitude", slog.String("lat", r.Latitude))
		return
	}
	lng, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil {
		log.Warn("gym register: bad longitude", slog.String("lng", r.Longitude))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := db.InsertGym(ctx, b.DB, r.CleanLocation, lat, lng); err != nil {
		log.Error("gym register failed", slog.String("gym", r.CleanLocation), slog.Any("err", err))
	}
}

// announcementFromEmbed lifts the fields the pipeline needs out of the
// upstream message's first embed.
func announcementFromEmbed(m *discordgo.MessageCreate) raid.Announcement {
	e := m.Embeds[0]
	a := raid.Announcement{
		Description: e.Description,
		URL:         e.URL,
		CreatedAt:   m.Timestamp,
	}
	if e.Thumbnail != nil {
		a.ThumbURL = e.Thumbnail.URL
	}
	return a
}
