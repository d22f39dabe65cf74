package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// InteractionSession is the subset of *discordgo.Session used to answer interactions.
type InteractionSession interface {
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error
	InteractionResponseEdit(
		interaction *discordgo.Interaction,
		newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	FollowupMessageCreate(
		interaction *discordgo.Interaction,
		wait bool,
		data *discordgo.WebhookParams,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// InteractionResponder answers one slash command interaction.
type InteractionResponder struct {
	session     InteractionSession
	interaction *discordgo.Interaction

	mu      sync.Mutex
	replied bool
}

func NewInteractionResponder(session InteractionSession, interaction *discordgo.Interaction) *InteractionResponder {
	return &InteractionResponder{
		session:     session,
		interaction: interaction,
	}
}

func (r *InteractionResponder) Reply(ctx context.Context, content string, ephemeral bool) error {
	return r.respond(ctx, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   messageFlags(ephemeral),
		},
	})
}

func (r *InteractionResponder) Defer(ctx context.Context, ephemeral bool) error {
	return r.respond(ctx, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: messageFlags(ephemeral),
		},
	})
}

func (r *InteractionResponder) respond(ctx context.Context, resp *discordgo.InteractionResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.replied {
		return fmt.Errorf("interaction %s already answered", r.interaction.ID)
	}

	if err := r.session.InteractionRespond(r.interaction, resp, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to reply to interaction %s: %w", r.interaction.ID, err)
	}

	r.replied = true
	return nil
}

func (r *InteractionResponder) EditReply(ctx context.Context, content string) error {
	_, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Content: &content,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit reply to interaction %s: %w", r.interaction.ID, err)
	}
	return nil
}

func (r *InteractionResponder) FollowUp(ctx context.Context, content string, ephemeral bool) error {
	_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   messageFlags(ephemeral),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send follow-up to interaction %s: %w", r.interaction.ID, err)
	}
	return nil
}

func (r *InteractionResponder) Replied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replied
}

func messageFlags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
