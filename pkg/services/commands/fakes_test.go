package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testNow       = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)
	lastWeekStart = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	lastWeekEnd   = time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	reportChannel = snowflake.ID(1111111111111111111)
	workChannel   = snowflake.ID(2222222222222222222)
	invokingUser  = snowflake.ID(3333333333333333333)
)

// fakePlatform keeps one shared history, oldest first.
type fakePlatform struct {
	channels   map[snowflake.ID]domain.Channel
	history    []domain.Message
	historyErr error
	reactErr   map[snowflake.ID]error
	removeErr  map[snowflake.ID]error
	dmErr      error
	dmFailAt   int

	historyCalls int
	reacted      []snowflake.ID
	removed      []snowflake.ID
	dms          []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		channels: map[snowflake.ID]domain.Channel{
			reportChannel: {ID: reportChannel, Name: "weekly-report", TextBased: true},
			workChannel:   {ID: workChannel, Name: "work-log", TextBased: true},
		},
		reactErr:  map[snowflake.ID]error{},
		removeErr: map[snowflake.ID]error{},
	}
}

func (f *fakePlatform) add(createdAt time.Time, content string, bot bool, reactions map[string]int) snowflake.ID {
	id := snowflake.New(createdAt)
	f.history = append(f.history, domain.Message{
		ID:          id,
		CreatedAt:   createdAt,
		Content:     content,
		AuthorIsBot: bot,
		Reactions:   reactions,
	})
	return id
}

func (f *fakePlatform) Channel(_ context.Context, id snowflake.ID) (domain.Channel, error) {
	ch, ok := f.channels[id]
	if !ok {
		return domain.Channel{}, fmt.Errorf("%w: %s", domain.ErrChannelNotFound, id)
	}
	return ch, nil
}

func (f *fakePlatform) ChannelMessages(
	_ context.Context,
	channelID snowflake.ID,
	limit int,
	before snowflake.ID,
) ([]domain.Message, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}

	var page []domain.Message
	for i := len(f.history) - 1; i >= 0 && len(page) < limit; i-- {
		msg := f.history[i]
		if before != 0 && msg.ID >= before {
			continue
		}
		msg.ChannelID = channelID
		page = append(page, msg)
	}
	return page, nil
}

func (f *fakePlatform) AddReaction(_ context.Context, _, messageID snowflake.ID, _ string) error {
	if err := f.reactErr[messageID]; err != nil {
		return err
	}
	f.reacted = append(f.reacted, messageID)
	return nil
}

func (f *fakePlatform) RemoveReaction(_ context.Context, _, messageID snowflake.ID, _ string) error {
	if err := f.removeErr[messageID]; err != nil {
		return err
	}
	f.removed = append(f.removed, messageID)
	return nil
}

func (f *fakePlatform) SendDirectMessage(_ context.Context, _ snowflake.ID, content string) error {
	if f.dmErr != nil && len(f.dms)+1 >= f.dmFailAt {
		return f.dmErr
	}
	f.dms = append(f.dms, content)
	return nil
}

type mockResponder struct {
	mock.Mock
	replied bool
}

func (m *mockResponder) Reply(_ context.Context, content string, ephemeral bool) error {
	err := m.Called(content, ephemeral).Error(0)
	if err == nil {
		m.replied = true
	}
	return err
}

func (m *mockResponder) Defer(_ context.Context, ephemeral bool) error {
	err := m.Called(ephemeral).Error(0)
	if err == nil {
		m.replied = true
	}
	return err
}

func (m *mockResponder) EditReply(_ context.Context, content string) error {
	return m.Called(content).Error(0)
}

func (m *mockResponder) FollowUp(_ context.Context, content string, ephemeral bool) error {
	return m.Called(content, ephemeral).Error(0)
}

func (m *mockResponder) Replied() bool {
	return m.replied
}

func testDependencies(t *testing.T, platform Platform) Dependencies {
	t.Helper()
	calc, err := window.NewCalculator(
		domain.ReportingSchedule{Timezone: "UTC", Weekday: 1, Hour: 9, Minute: 0},
		window.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	return Dependencies{
		Platform:        platform,
		Calculator:      calc,
		Scanner:         history.NewScanner(),
		ReportChannelID: reportChannel,
		DoneEmoji:       DefaultDoneEmoji,
	}
}

// atTime rebinds the calculator in deps to a fixed clock.
func atTime(t *testing.T, deps Dependencies, now time.Time) Dependencies {
	t.Helper()
	calc, err := window.NewCalculator(deps.Calculator.Schedule(), window.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	deps.Calculator = calc
	return deps
}

func invocation(channelID snowflake.ID, resp Responder, options Options) *Invocation {
	return &Invocation{
		ChannelID: channelID,
		UserID:    invokingUser,
		Options:   options,
		Responder: resp,
	}
}
