package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/models/api"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSchedule = domain.ReportingSchedule{Timezone: "UTC", Weekday: 1, Hour: 9}

type mockPreviewer struct {
	mock.Mock
}

func (m *mockPreviewer) Schedule() domain.ReportingSchedule {
	return testSchedule
}

func (m *mockPreviewer) Location() *time.Location {
	return time.UTC
}

func (m *mockPreviewer) Window(weeksBack int) (domain.TimeWindow, error) {
	args := m.Called(weeksBack)
	return args.Get(0).(domain.TimeWindow), args.Error(1)
}

type staticCommands []*discordgo.ApplicationCommand

func (s staticCommands) Definitions() []*discordgo.ApplicationCommand {
	return s
}

func TestHealth(t *testing.T) {
	h := NewHandler(new(mockPreviewer), staticCommands{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body api.Health
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, api.Health{Status: "ok", Schedule: "Monday 09:00 (UTC)"}, body)
}

func TestListCommands(t *testing.T) {
	h := NewHandler(new(mockPreviewer), staticCommands{{
		Name:        "markdone",
		Description: "React to messages",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "weeksback",
			Description: "How many weeks back to mark",
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "1 week", Value: 1},
			},
		}},
	}})

	rec := httptest.NewRecorder()
	h.ListCommands(rec, httptest.NewRequest(http.MethodGet, "/api/v1/commands", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body []api.Command
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []api.Command{{
		Name:        "markdone",
		Description: "React to messages",
		Options: []api.CommandOption{{
			Name:        "weeksback",
			Description: "How many weeks back to mark",
			Type:        discordgo.ApplicationCommandOptionInteger.String(),
			Choices:     []string{"1 week=1"},
		}},
	}}, body)
}

func TestGetWindow(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		setupMock      func(m *mockPreviewer)
		expectedStatus int
		expectedBody   any
		parse          func(*httptest.ResponseRecorder) (any, error)
	}{
		{
			name:  "default one week",
			query: "",
			setupMock: func(m *mockPreviewer) {
				m.On("Window", 1).Return(domain.TimeWindow{Start: start, End: end}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: api.Window{
				WeeksBack:     1,
				Schedule:      "Monday 09:00 (UTC)",
				Start:         start,
				End:           end,
				DurationHours: 168,
			},
			parse: decode[api.Window],
		},
		{
			name:  "explicit weeks",
			query: "?weeks=0",
			setupMock: func(m *mockPreviewer) {
				m.On("Window", 0).Return(domain.TimeWindow{Start: end, End: end.Add(time.Hour)}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: api.Window{
				WeeksBack:     0,
				Schedule:      "Monday 09:00 (UTC)",
				Start:         end,
				End:           end.Add(time.Hour),
				DurationHours: 1,
			},
			parse: decode[api.Window],
		},
		{
			name:           "not a number",
			query:          "?weeks=many",
			setupMock:      func(*mockPreviewer) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   api.Error{Error: "weeks must be an integer between 0 and 52"},
			parse:          decode[api.Error],
		},
		{
			name:  "negative",
			query: "?weeks=-1",
			setupMock: func(m *mockPreviewer) {
				m.On("Window", -1).Return(domain.TimeWindow{},
					fmt.Errorf("%w: %d", domain.ErrInvalidWeeksBack, -1))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   api.Error{Error: "weeks back must not be negative: -1"},
			parse:          decode[api.Error],
		},
		{
			name:  "calculator failure",
			query: "?weeks=2",
			setupMock: func(m *mockPreviewer) {
				m.On("Window", 2).Return(domain.TimeWindow{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   api.Error{Error: "failed to compute window"},
			parse:          decode[api.Error],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previewer := new(mockPreviewer)
			tt.setupMock(previewer)
			h := NewHandler(previewer, staticCommands{})

			rec := httptest.NewRecorder()
			h.GetWindow(rec, httptest.NewRequest(http.MethodGet, "/api/v1/window"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			body, err := tt.parse(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedBody, body)
			previewer.AssertExpectations(t)
		})
	}
}

func decode[T any](rec *httptest.ResponseRecorder) (any, error) {
	var v T
	err := json.NewDecoder(rec.Body).Decode(&v)
	return v, err
}
