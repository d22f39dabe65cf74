package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/adapters"
	"github.com/de-tools/reportbot/pkg/models/api"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	defaultWeeksBack = 1
	maxWeeksBack     = 52
)

// WindowPreviewer computes reporting windows. *window.Calculator implements it.
type WindowPreviewer interface {
	Schedule() domain.ReportingSchedule
	Location() *time.Location
	Window(weeksBack int) (domain.TimeWindow, error)
}

// CommandLister exposes slash command definitions. commands.Registry implements it.
type CommandLister interface {
	Definitions() []*discordgo.ApplicationCommand
}

type Handler struct {
	windows  WindowPreviewer
	commands CommandLister
}

func NewHandler(windows WindowPreviewer, commands CommandLister) *Handler {
	return &Handler{
		windows:  windows,
		commands: commands,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, api.Health{
		Status:   "ok",
		Schedule: h.windows.Schedule().String(),
	})
}

func (h *Handler) ListCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapCommandDefinitionsToAPI(h.commands.Definitions()))
}

// GetWindow previews the window a command would scan for ?weeks=N.
func (h *Handler) GetWindow(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	weeksBack := defaultWeeksBack
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n > maxWeeksBack {
			writeJSON(w, r, http.StatusBadRequest, api.Error{Error: "weeks must be an integer between 0 and 52"})
			return
		}
		weeksBack = n
	}

	tw, err := h.windows.Window(weeksBack)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWeeksBack) {
			writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error()})
			return
		}
		logger.Error().Err(err).Int("weeks", weeksBack).Msg("failed to compute window")
		writeJSON(w, r, http.StatusInternalServerError, api.Error{Error: "failed to compute window"})
		return
	}

	schedule := h.windows.Schedule()
	writeJSON(w, r, http.StatusOK, adapters.MapDomainWindowToAPI(tw.In(h.windows.Location()), weeksBack, schedule))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("failed to encode response")
	}
}
