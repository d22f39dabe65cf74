package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	failureMessage       = "❌ Something went wrong while running this command. Please try again."
	targetFailureMessage = "❌ Target channel not found or not text-based."
)

// Registry maps slash command names to their handlers.
type Registry interface {
	// Register adds a command, rejecting empty or duplicate names
	Register(cmd Command) error
	Get(name string) (Command, bool)
	// List returns the registered commands sorted by name
	List() []Command
	// Definitions returns the payloads to register with Discord
	Definitions() []*discordgo.ApplicationCommand
	// Execute runs the named command and reports a failure to the user when it errors
	Execute(ctx context.Context, name string, inv *Invocation) error
}

type registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates a registry holding cmds.
func NewRegistry(cmds ...Command) (Registry, error) {
	r := &registry{
		commands: make(map[string]Command),
	}
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) Register(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %q is already registered", name)
	}

	r.commands[name] = cmd
	return nil
}

func (r *registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]
	return cmd, ok
}

func (r *registry) List() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})
	return cmds
}

func (r *registry) Definitions() []*discordgo.ApplicationCommand {
	cmds := r.List()
	defs := make([]*discordgo.ApplicationCommand, 0, len(cmds))
	for _, cmd := range cmds {
		defs = append(defs, cmd.Definition())
	}
	return defs
}

func (r *registry) Execute(ctx context.Context, name string, inv *Invocation) error {
	logger := zerolog.Ctx(ctx)

	cmd, ok := r.Get(name)
	if !ok {
		logger.Warn().Str("command", name).Msg("received unknown command")
		if err := inv.Responder.Reply(ctx, fmt.Sprintf("❌ Unknown command `%s`.", name), true); err != nil {
			logger.Error().Err(err).Msg("failed to report unknown command")
		}
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}

	err := cmd.Execute(ctx, inv)
	if err == nil {
		return nil
	}

	logger.Error().Err(err).Str("command", name).Msg("command failed")
	if reportErr := reportFailure(ctx, inv.Responder, err); reportErr != nil {
		logger.Error().Err(reportErr).Str("command", name).Msg("failed to report command failure")
	}
	return fmt.Errorf("command %s failed: %w", name, err)
}

// reportFailure tells the user once that the command failed. It edits the
// acknowledgement when one was already sent.
func reportFailure(ctx context.Context, resp Responder, err error) error {
	msg := failureMessage
	if errors.Is(err, domain.ErrChannelNotFound) || errors.Is(err, domain.ErrNotTextBased) {
		msg = targetFailureMessage
	}

	if resp.Replied() {
		return resp.EditReply(ctx, msg)
	}
	return resp.Reply(ctx, msg, true)
}
