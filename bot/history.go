package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/onnwee/raid-herald/raid"
)

// sessionHistory adapts the live Discord session to the finder's view of
// message history: text channels across all joined guilds and their most
// recent posts.
type sessionHistory struct {
	session *discordgo.Session
}

func (h *sessionHistory) Channels(ctx context.Context) ([]string, error) {
	var ids []string
	for _, g := range h.session.State.Guilds {
		chans, err := h.session.GuildChannels(g.ID)
		if err != nil {
			return nil, err
		}
		for _, ch := range chans {
			if ch.Type == discordgo.ChannelTypeGuildText {
				ids = append(ids, ch.ID)
			}
		}
	}
	return ids, nil
}

func (h *sessionHistory) Recent(ctx context.Context, channelID string, limit int) ([]raid.PostedMessage, error) {
	msgs, err := h.session.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return nil, err
	}
	out := make([]raid.PostedMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Author == nil || len(m.Embeds) == 0 {
			continue
		}
		out = append(out, raid.PostedMessage{
			AuthorID:    m.Author.ID,
			Title:       m.Embeds[0].Title,
			Description: m.Embeds[0].Description,
			CreatedAt:   m.Timestamp,
		})
	}
	return out, nil
}
