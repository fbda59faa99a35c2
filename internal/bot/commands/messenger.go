package commands

import "github.com/bwmarrin/discordgo"

// Messenger is the slice of the Discord REST API the commands use
type Messenger interface {
	Send(channelID, content string) (messageID string, err error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	Edit(channelID, messageID, content string) error
}

// SessionMessenger adapts a discordgo session to Messenger
type SessionMessenger struct {
	Session *discordgo.Session
}

// Send posts a plain text message
func (m SessionMessenger) Send(channelID, content string) (string, error) {
	msg, err := m.Session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

// SendEmbed posts an embed
func (m SessionMessenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := m.Session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

// Edit replaces the content of an earlier message
func (m SessionMessenger) Edit(channelID, messageID, content string) error {
	_, err := m.Session.ChannelMessageEdit(channelID, messageID, content)
	return err
}
