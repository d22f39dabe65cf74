package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkDone_ReactsToHumanMessagesInWindow(t *testing.T) {
	platform := newFakePlatform()
	platform.add(lastWeekStart.Add(-time.Second), "before", false, nil)
	first := platform.add(lastWeekStart, "start of week", false, nil)
	platform.add(lastWeekStart.Add(time.Hour), "bot digest", true, nil)
	failing := platform.add(lastWeekStart.Add(2*time.Hour), "locked thread", false, nil)
	boundary := platform.add(lastWeekEnd, "exactly at the breakpoint", false, nil)
	platform.add(lastWeekEnd.Add(time.Second), "after", false, nil)
	platform.reactErr[failing] = errors.New("missing permissions")

	resp := new(mockResponder)
	resp.On("Reply", "Marking messages done ✅ for the last 1 week(s)...", true).Return(nil)
	resp.On("EditReply", "✅ Marked 2 messages as done.").Return(nil)

	cmd := NewMarkDone(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, nil))

	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{first, boundary}, platform.reacted)
	resp.AssertExpectations(t)
}

func TestMarkDone_SingleMessage(t *testing.T) {
	platform := newFakePlatform()
	only := platform.add(testNow.Add(-time.Hour), "today", false, nil)

	resp := new(mockResponder)
	resp.On("Reply", "Marking messages done ✅ for last breakpoint to now...", true).Return(nil)
	resp.On("EditReply", "✅ Marked 1 message as done.").Return(nil)

	cmd := NewMarkDone(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, Options{"weeksback": int64(0)}))

	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{only}, platform.reacted)
	resp.AssertExpectations(t)
}

func TestMarkDone_NothingToMark(t *testing.T) {
	platform := newFakePlatform()
	platform.add(lastWeekStart.Add(time.Hour), "bot only", true, nil)

	resp := new(mockResponder)
	resp.On("Reply", "Marking messages done ✅ for the last 2 week(s)...", true).Return(nil)
	resp.On("EditReply", "No messages found to mark done in that timeframe.").Return(nil)

	cmd := NewMarkDone(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, Options{"weeksback": int64(2)}))

	require.NoError(t, err)
	assert.Empty(t, platform.reacted)
	resp.AssertExpectations(t)
}

func TestMarkDone_InvokingChannelNotText(t *testing.T) {
	platform := newFakePlatform()
	platform.channels[workChannel] = domain.Channel{ID: workChannel, TextBased: false}

	resp := new(mockResponder)
	resp.On("Reply", mock.Anything, true).Return(nil)

	cmd := NewMarkDone(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, nil))

	assert.ErrorIs(t, err, domain.ErrNotTextBased)
	assert.Zero(t, platform.historyCalls)
}

func TestMarkDone_HistoryErrorAbortsBeforeReacting(t *testing.T) {
	platform := newFakePlatform()
	platform.add(lastWeekStart, "start of week", false, nil)
	platform.historyErr = errors.New("connection reset")

	resp := new(mockResponder)
	resp.On("Reply", mock.Anything, true).Return(nil)

	cmd := NewMarkDone(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, nil))

	assert.ErrorIs(t, err, platform.historyErr)
	assert.Empty(t, platform.reacted)
	resp.AssertNotCalled(t, "EditReply", mock.Anything)
}

func TestMarkRemove_RemovesOnlyExistingReactions(t *testing.T) {
	platform := newFakePlatform()
	done := map[string]int{"✅": 2}
	platform.add(lastWeekStart.Add(-time.Hour), "old but done", false, done)
	botDone := platform.add(lastWeekStart.Add(time.Hour), "bot and done", true, done)
	platform.add(lastWeekStart.Add(2*time.Hour), "not done", false, map[string]int{"👀": 1})
	failing := platform.add(lastWeekStart.Add(3*time.Hour), "done but locked", false, done)
	boundary := platform.add(lastWeekEnd, "done on boundary", false, done)
	platform.removeErr[failing] = errors.New("unknown message")

	resp := new(mockResponder)
	resp.On("Reply", "Removing ✅ reactions from the last 1 week(s)...", true).Return(nil)
	resp.On("EditReply", "✅ Removed ✅ from 2 messages.").Return(nil)

	cmd := NewMarkRemove(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, nil))

	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{botDone, boundary}, platform.removed)
	resp.AssertExpectations(t)
}

func TestMarkRemove_NothingToRemove(t *testing.T) {
	platform := newFakePlatform()
	platform.add(lastWeekStart.Add(time.Hour), "not done", false, nil)

	resp := new(mockResponder)
	resp.On("Reply", "Removing ✅ reactions from last breakpoint to now...", true).Return(nil)
	resp.On("EditReply", "No ✅ reactions found to remove in that timeframe.").Return(nil)

	cmd := NewMarkRemove(testDependencies(t, platform))
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, Options{"weeks": int64(0)}))

	require.NoError(t, err)
	assert.Empty(t, platform.removed)
	resp.AssertExpectations(t)
}

func TestMarkRemove_CustomEmoji(t *testing.T) {
	platform := newFakePlatform()
	target := platform.add(lastWeekStart.Add(time.Hour), "party", false, map[string]int{"🎉": 1, "✅": 1})

	deps := testDependencies(t, platform)
	deps.DoneEmoji = "🎉"

	resp := new(mockResponder)
	resp.On("Reply", "Removing 🎉 reactions from the last 1 week(s)...", true).Return(nil)
	resp.On("EditReply", "🎉 Removed 🎉 from 1 message.").Return(nil)

	cmd := NewMarkRemove(deps)
	err := cmd.Execute(context.Background(), invocation(workChannel, resp, nil))

	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{target}, platform.removed)
	resp.AssertExpectations(t)
}

func TestMarkCommands_ZeroWidthWindowSkipsHistory(t *testing.T) {
	tests := []struct {
		name    string
		build   func(deps Dependencies) Command
		options Options
		ack     string
		empty   string
	}{
		{
			name:    "markdone",
			build:   func(deps Dependencies) Command { return NewMarkDone(deps) },
			options: Options{"weeksback": int64(0)},
			ack:     "Marking messages done ✅ for last breakpoint to now...",
			empty:   "No messages found to mark done in that timeframe.",
		},
		{
			name:    "markremove",
			build:   func(deps Dependencies) Command { return NewMarkRemove(deps) },
			options: Options{"weeks": int64(0)},
			ack:     "Removing ✅ reactions from last breakpoint to now...",
			empty:   "No ✅ reactions found to remove in that timeframe.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := newFakePlatform()
			platform.add(lastWeekEnd, "posted on the breakpoint", false, map[string]int{DefaultDoneEmoji: 1})

			resp := new(mockResponder)
			resp.On("Reply", tt.ack, true).Return(nil)
			resp.On("EditReply", tt.empty).Return(nil)

			cmd := tt.build(atTime(t, testDependencies(t, platform), lastWeekEnd))
			err := cmd.Execute(context.Background(), invocation(workChannel, resp, tt.options))

			require.NoError(t, err)
			assert.Zero(t, platform.historyCalls)
			assert.Empty(t, platform.reacted)
			assert.Empty(t, platform.removed)
			resp.AssertExpectations(t)
		})
	}
}
