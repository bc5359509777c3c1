// Package site serves the server-rendered analytics dashboard.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/okian/cfinsight/internal/adapters/http/api"
	"github.com/okian/cfinsight/internal/adapters/session"
	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/domain/coach"
	model "github.com/okian/cfinsight/internal/domain/model"
	"github.com/okian/cfinsight/pkg/logger"
)

// Error constants
var (
	ErrRender = errors.New("dashboard render failed")
)

// Dashboard modes.
const (
	ModeSingle  = "single"
	ModeCompare = "compare"
)

// Default handles prefilled in the sidebar.
const (
	DefaultHandle  = "tourist"
	DefaultHandleB = "Petr"
)

// User-facing messages.
const (
	CleanSheetMessage  = "Clean Sheet! You have solved every problem you attempted."
	InvalidPairMessage = api.InvalidUsersMessage
)

const backlogDateLayout = "2006-01-02"

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Dependencies are the service operations the dashboard drives.
type Dependencies interface {
	Analyze(ctx context.Context, handle string) (service.Report, error)
	Compare(ctx context.Context, a, b string) (service.HeadToHead, error)
	Coach(ctx context.Context, sessionID, handle string) (string, error)
	Session(sessionID, handle string) session.State
	ProblemURL(sub model.Submission) string
	CoachAvailable() bool
}

// Handler renders the dashboard.
type Handler struct {
	deps       Dependencies
	sessionTTL time.Duration
	logger     logger.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(deps Dependencies, sessionTTL time.Duration, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{deps: deps, sessionTTL: sessionTTL, logger: log}
}

// Register attaches the dashboard routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleIndex, "dashboard"))
	mux.HandleFunc("/coach", api.MetricsMiddleware(h.HandleCoach, "dashboard_coach"))
}

type backlogRow struct {
	Pos    int
	Name   string
	URL    string
	Rating int
	Date   string
}

type coachView struct {
	Available bool
	Warning   string
	HTML      template.HTML
	IsError   bool
}

type pageData struct {
	Mode   string
	Handle string
	A, B   string
	Error  string

	Report  *service.Report
	Backlog []backlogRow
	Coach   coachView

	Compare   *service.HeadToHead
	CleanText string
	NoTags    string
}

// HandleIndex handles GET / requests.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	data := pageData{
		Mode:      ModeSingle,
		Handle:    valueOr(q.Get("handle"), DefaultHandle),
		A:         valueOr(q.Get("a"), DefaultHandle),
		B:         valueOr(q.Get("b"), DefaultHandleB),
		CleanText: CleanSheetMessage,
		NoTags:    "No tags found.",
	}
	if q.Get("mode") == ModeCompare {
		data.Mode = ModeCompare
	}

	sid := session.Ensure(w, r, h.sessionTTL)
	switch {
	case data.Mode == ModeSingle && q.Has("handle"):
		h.single(r, sid, &data, q.Get("notice"))
	case data.Mode == ModeCompare && q.Has("a") && q.Has("b"):
		h.compare(r, &data)
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		h.logger.Error(r.Context(), "dashboard render failed", logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) single(r *http.Request, sid string, data *pageData, notice string) {
	state := h.deps.Session(sid, data.Handle)
	report, err := h.deps.Analyze(r.Context(), data.Handle)
	if err != nil {
		data.Error = api.UserNotFoundMessage(data.Handle)
		return
	}
	data.Report = &report
	for i, sub := range report.Insights.Backlog {
		data.Backlog = append(data.Backlog, backlogRow{
			Pos:    i + 1,
			Name:   sub.Problem,
			URL:    h.deps.ProblemURL(sub),
			Rating: sub.Rating,
			Date:   sub.Date.Format(backlogDateLayout),
		})
	}
	data.Coach.Available = h.deps.CoachAvailable()
	if notice == "nodata" {
		data.Coach.Warning = coach.NotEnoughDataMessage
	}
	if state.CoachText != "" {
		data.Coach.IsError = coach.IsError(state.CoachText)
		data.Coach.HTML = renderMarkdown(state.CoachText)
	}
}

func (h *Handler) compare(r *http.Request, data *pageData) {
	result, err := h.deps.Compare(r.Context(), data.A, data.B)
	if err != nil {
		data.Error = InvalidPairMessage
		return
	}
	data.Compare = &result
}

// HandleCoach handles POST /coach form submissions and redirects back to
// the single-handle view.
func (h *Handler) HandleCoach(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	handle := strings.TrimSpace(r.PostForm.Get("handle"))
	if handle == "" {
		http.Error(w, "missing handle", http.StatusBadRequest)
		return
	}

	q := url.Values{"mode": {ModeSingle}, "handle": {handle}}
	sid := session.Ensure(w, r, h.sessionTTL)
	if _, err := h.deps.Coach(r.Context(), sid, handle); errors.Is(err, service.ErrNotEnoughData) {
		q.Set("notice", "nodata")
	} else if err != nil {
		h.logger.Warn(r.Context(), "coach request failed", logger.String("handle", handle), logger.Error(err))
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// renderMarkdown converts coaching text to HTML. Raw HTML in the input is
// not passed through.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}
	return template.HTML(buf.String())
}

func valueOr(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
