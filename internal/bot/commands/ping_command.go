package commands

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// PingCommand는 "pong"으로 응답하는 간단한 명령어입니다
type PingCommand struct{}

// NewPingCommand는 새로운 ping 명령어를 생성합니다
func NewPingCommand() *PingCommand {
	return &PingCommand{}
}

// Help returns the usage line
func (c *PingCommand) Help() string {
	return "ping: check that the bot is alive"
}

// Execute replies with the round-trip latency of the first message
func (c *PingCommand) Execute(_ context.Context, s Messenger, m *discordgo.MessageCreate, _ []string) {
	// 응답 시간 계산
	start := time.Now()
	msgID, err := s.Send(m.ChannelID, "Pinging...")
	if err != nil {
		return
	}

	elapsed := time.Since(start)
	reply := "Pong! Latency: " + elapsed.Round(time.Millisecond).String()

	// 지연 시간 정보로 메시지 수정
	if err := s.Edit(m.ChannelID, msgID, reply); err != nil {
		s.Send(m.ChannelID, reply)
	}
}
