package history

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

// DefaultPageSize is the largest page Discord serves for channel history.
const DefaultPageSize = 100

// Source serves a channel's history newest first. A zero before cursor asks
// for the newest page.
type Source interface {
	MessagesBefore(ctx context.Context, limit int, before snowflake.ID) ([]domain.Message, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, limit int, before snowflake.ID) ([]domain.Message, error)

func (f SourceFunc) MessagesBefore(ctx context.Context, limit int, before snowflake.ID) ([]domain.Message, error) {
	return f(ctx, limit, before)
}

// Membership decides whether a creation time belongs to a window.
type Membership func(createdAt time.Time, w domain.TimeWindow) bool

var (
	// HalfOpen keeps start <= createdAt < end.
	HalfOpen Membership = func(createdAt time.Time, w domain.TimeWindow) bool {
		return w.ContainsHalfOpen(createdAt)
	}
	// Closed keeps start <= createdAt <= end.
	Closed Membership = func(createdAt time.Time, w domain.TimeWindow) bool {
		return w.ContainsClosed(createdAt)
	}
)

// Predicate filters messages that are inside the window. Nil keeps everything.
type Predicate func(msg domain.Message) bool

// NotFromBot drops messages written by automated accounts.
func NotFromBot(msg domain.Message) bool {
	return !msg.AuthorIsBot
}

type Scanner struct {
	pageSize int
}

type Option func(*Scanner)

func WithPageSize(size int) Option {
	return func(s *Scanner) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) PageSize() int {
	return s.pageSize
}

// Scan pages backwards through src and returns the messages inside w, oldest first.
//
// Paging stops on an empty page, on a page shorter than the page size, or as soon
// as the oldest message of a page predates w.Start: everything after that is older
// still. Source errors are returned as is, wrapped with the page number.
func (s *Scanner) Scan(
	ctx context.Context,
	src Source,
	w domain.TimeWindow,
	membership Membership,
	predicate Predicate,
) ([]domain.Message, error) {
	logger := zerolog.Ctx(ctx)
	if membership == nil {
		membership = HalfOpen
	}

	var (
		matched []domain.Message // newest first, as delivered
		before  snowflake.ID
	)

	for page := 1; ; page++ {
		messages, err := src.MessagesBefore(ctx, s.pageSize, before)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch history page %d: %w", page, err)
		}
		if len(messages) == 0 {
			logger.Debug().Int("page", page).Msg("history exhausted")
			break
		}

		kept := 0
		for _, msg := range messages {
			if !membership(msg.CreatedAt, w) {
				continue
			}
			if predicate != nil && !predicate(msg) {
				continue
			}
			matched = append(matched, msg)
			kept++
		}

		oldest := messages[len(messages)-1]
		before = oldest.ID

		logger.Debug().
			Int("page", page).
			Int("fetched", len(messages)).
			Int("kept", kept).
			Time("oldest", oldest.CreatedAt).
			Msg("scanned history page")

		if oldest.CreatedAt.Before(w.Start) {
			break
		}
		if len(messages) < s.pageSize {
			break
		}
	}

	slices.Reverse(matched)
	return matched, nil
}
