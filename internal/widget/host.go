package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/text/language"

	"github.com/p-n-ai/trade-courses/internal/assessment"
	"github.com/p-n-ai/trade-courses/internal/content"
	"github.com/p-n-ai/trade-courses/internal/results"
)

const (
	defaultMaxIntents = 1000
	readLimit         = 4 << 10
)

// Catalog is the content a host serves widgets from.
type Catalog interface {
	Sections() []content.Section
	Section(id string) (content.Section, bool)
	Article(sectionID string) (string, bool)
	Widgets(sectionID string) []content.WidgetDescriptor
	Quiz(sectionID, quizID string) (*assessment.Quiz, bool)
	InlineCheck(sectionID, checkID string) (*assessment.InlineCheck, bool)
	Fingerprint(sectionID string) string
}

// HostConfig holds dependencies for the widget host.
type HostConfig struct {
	Catalog        Catalog
	Sink           results.Sink
	Locale         language.Tag
	Bands          assessment.BandPolicy
	OriginPatterns []string
	MaxIntents     int // intents per mount before the connection is closed (default 1000)
}

// Host serves section data and live widget connections.
type Host struct {
	catalog        Catalog
	sink           results.Sink
	locale         language.Tag
	bands          assessment.BandPolicy
	originPatterns []string
	maxIntents     int
}

// NewHost creates a widget host.
func NewHost(cfg HostConfig) *Host {
	sink := cfg.Sink
	if sink == nil {
		sink = results.NopSink{}
	}
	bands := cfg.Bands
	if bands == nil {
		bands = assessment.DefaultBands
	}
	locale := cfg.Locale
	if locale == language.Und {
		locale = language.BritishEnglish
	}
	maxIntents := cfg.MaxIntents
	if maxIntents <= 0 {
		maxIntents = defaultMaxIntents
	}
	return &Host{
		catalog:        cfg.Catalog,
		sink:           sink,
		locale:         locale,
		bands:          bands,
		originPatterns: cfg.OriginPatterns,
		maxIntents:     maxIntents,
	}
}

// Register adds the host routes to mux.
func (h *Host) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sections", h.handleSections)
	mux.HandleFunc("GET /api/sections/{id}", h.handleSection)
	mux.HandleFunc("GET /api/sections/{id}/article", h.handleArticle)
	mux.HandleFunc("GET /ws/sections/{section}/quizzes/{widget}", h.handleQuiz)
	mux.HandleFunc("GET /ws/sections/{section}/checks/{widget}", h.handleCheck)
}

// IntentMessage is the client-to-server wire format.
type IntentMessage struct {
	Action string `json:"action"`
	Choice *int   `json:"choice,omitempty"`
	Value  *bool  `json:"value,omitempty"`
}

// Intent converts the wire message into an engine intent.
func (m IntentMessage) Intent() (assessment.Intent, error) {
	switch assessment.Action(m.Action) {
	case assessment.ActionSelect:
		switch {
		case m.Choice != nil && m.Value != nil:
			return assessment.Intent{}, fmt.Errorf("select takes either choice or value, not both")
		case m.Choice != nil:
			return assessment.Select(assessment.Choice(*m.Choice)), nil
		case m.Value != nil:
			return assessment.Select(assessment.Bool(*m.Value)), nil
		default:
			return assessment.Intent{}, fmt.Errorf("select needs a choice or a value")
		}
	case assessment.ActionAdvance:
		return assessment.Advance(), nil
	case assessment.ActionRetake:
		return assessment.Retake(), nil
	default:
		return assessment.Intent{}, fmt.Errorf("unknown action %q", m.Action)
	}
}

// Reply is the server-to-client wire format.
type Reply struct {
	MountID  string               `json:"mount_id"`
	Attempt  int                  `json:"attempt"`
	Snapshot *assessment.Snapshot `json:"snapshot,omitempty"`
	Summary  string               `json:"summary,omitempty"`
	Band     *assessment.Band     `json:"band,omitempty"`
	Error    string               `json:"error,omitempty"`
}

func (h *Host) reply(s *Session, snap assessment.Snapshot) Reply {
	r := Reply{
		MountID:  s.ID,
		Attempt:  s.Attempt(),
		Snapshot: &snap,
		Summary:  Summary(h.locale, snap),
	}
	if snap.Phase == assessment.PhaseComplete && snap.Percentage != nil {
		if band, ok := h.bands.For(*snap.Percentage); ok {
			r.Band = &band
		}
	}
	return r
}

type sectionResponse struct {
	content.Section
	BankVersion string                     `json:"bank_version,omitempty"`
	Widgets     []content.WidgetDescriptor `json:"widgets"`
}

func (h *Host) handleSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sections": h.catalog.Sections()})
}

func (h *Host) handleSection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	section, ok := h.catalog.Section(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "section not found"})
		return
	}
	widgets := h.catalog.Widgets(id)
	if widgets == nil {
		widgets = []content.WidgetDescriptor{}
	}
	writeJSON(w, http.StatusOK, sectionResponse{
		Section:     section,
		BankVersion: h.catalog.Fingerprint(id),
		Widgets:     widgets,
	})
}

func (h *Host) handleArticle(w http.ResponseWriter, r *http.Request) {
	article, ok := h.catalog.Article(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(article))
}

func (h *Host) handleQuiz(w http.ResponseWriter, r *http.Request) {
	sectionID, widgetID := r.PathValue("section"), r.PathValue("widget")
	quiz, ok := h.catalog.Quiz(sectionID, widgetID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "quiz not found"})
		return
	}
	h.serve(w, r, NewQuizSession(sectionID, h.catalog.Fingerprint(sectionID), quiz))
}

func (h *Host) handleCheck(w http.ResponseWriter, r *http.Request) {
	sectionID, widgetID := r.PathValue("section"), r.PathValue("widget")
	check, ok := h.catalog.InlineCheck(sectionID, widgetID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "inline check not found"})
		return
	}
	h.serve(w, r, NewCheckSession(sectionID, h.catalog.Fingerprint(sectionID), check))
}

// serve runs one mount for the lifetime of the connection.
func (h *Host) serve(w http.ResponseWriter, r *http.Request, s *Session) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	ctx := r.Context()
	snap := s.Snapshot()
	log := slog.With(
		"mount_id", s.ID,
		"section_id", s.SectionID,
		"widget_id", snap.Widget,
		"kind", snap.Kind,
	)
	log.Info("widget mounted")
	defer log.Info("widget unmounted")

	if err := wsjson.Write(ctx, conn, h.reply(s, snap)); err != nil {
		log.Debug("initial write failed", "error", err)
		return
	}

	for n := 0; ; n++ {
		if n >= h.maxIntents {
			conn.Close(websocket.StatusPolicyViolation, "too many intents")
			return
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				log.Debug("read failed", "error", err)
			}
			return
		}

		resp, err := h.handleFrame(ctx, s, data, log)
		if err != nil {
			resp = Reply{MountID: s.ID, Attempt: s.Attempt(), Error: err.Error()}
		}
		if err := wsjson.Write(ctx, conn, resp); err != nil {
			log.Debug("write failed", "error", err)
			return
		}
	}
}

// handleFrame decodes one client frame. A frame that is not a valid intent
// message is answered with an error and the mount carries on.
func (h *Host) handleFrame(ctx context.Context, s *Session, data []byte, log *slog.Logger) (Reply, error) {
	var msg IntentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug("malformed intent", "error", err)
		return Reply{}, fmt.Errorf("malformed intent: %w", err)
	}
	return h.handleIntent(ctx, s, msg, log)
}

// handleIntent applies one client message. Errors are reported to the client
// and leave the mount unchanged.
func (h *Host) handleIntent(ctx context.Context, s *Session, msg IntentMessage, log *slog.Logger) (Reply, error) {
	intent, err := msg.Intent()
	if err != nil {
		return Reply{}, err
	}

	snap, rec, err := s.Apply(intent)
	if err != nil {
		var invalid *assessment.InvalidAnswerError
		if errors.As(err, &invalid) {
			log.Debug("answer rejected", "question_id", invalid.QuestionID, "reason", invalid.Reason)
		}
		return Reply{}, err
	}

	if rec != nil {
		if err := h.sink.Publish(ctx, *rec); err != nil {
			// The learner's result stands even if the hand-off fails.
			log.Error("failed to publish result", "error", err)
		}
	}
	return h.reply(s, snap), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
