package commands

import (
	"context"
	"sort"
	"strings"

	"github.com/bradykim7/recipebot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Command represents a bot command
type Command interface {
	Execute(ctx context.Context, s Messenger, m *discordgo.MessageCreate, args []string)
	Help() string
}

// Registry manages all bot commands
type Registry struct {
	prefix   string
	commands map[string]Command
	log      *logger.Logger
}

// NewRegistry creates a new command registry
func NewRegistry(prefix string, log *logger.Logger) *Registry {
	return &Registry{
		prefix:   prefix,
		commands: make(map[string]Command),
		log:      log,
	}
}

// Register registers a command with the registry
func (r *Registry) Register(name string, cmd Command) {
	r.commands[strings.ToLower(name)] = cmd
	r.log.Infof("Registered command: %s", name)
}

// Handle processes a message and executes the appropriate command.
// It reports whether a command ran.
func (r *Registry) Handle(ctx context.Context, s Messenger, m *discordgo.MessageCreate) bool {
	// Check if the message starts with the command prefix
	if !strings.HasPrefix(m.Content, r.prefix) {
		return false
	}

	// Split the message into command and arguments
	content := strings.TrimPrefix(m.Content, r.prefix)
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return false
	}

	// Extract command name and arguments
	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	// Find the command
	cmd, ok := r.commands[cmdName]
	if !ok {
		return false
	}

	// Execute the command
	r.log.Debugf("Executing command: %s", cmdName)
	cmd.Execute(ctx, s, m, args)
	return true
}

// Names returns the registered command names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
