package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/mutate"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

const (
	boardSelector = "#board"
	maxBodyBytes  = 64 << 10
)

type ServerConfig struct {
	Addr   string
	Board  *board.Board
	Logger *slog.Logger

	// KeepAlive is the SSE keepalive interval (default 25s).
	KeepAlive time.Duration
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	log  *slog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Board == nil {
		return nil, errors.New("web: board is nil")
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 25 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, log: logger}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /static/app.js", s.handleAppJS)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	mux.HandleFunc("PATCH /api/tasks/{taskId}", s.handleTaskUpdate)
	mux.HandleFunc("DELETE /api/tasks/{taskId}", s.handleTaskDelete)
	mux.HandleFunc("POST /api/drag-end", s.handleDragEnd)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return mux
}

func (s *Server) handleAppJS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.js", "application/javascript; charset=utf-8")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "static/app.css", "text/css; charset=utf-8")
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name, contentType string) {
	b, err := assetsFS.ReadFile(name)
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type cardVM struct {
	ID        string
	Text      string
	Notes     string
	NotesHTML template.HTML
}

type columnVM struct {
	List        model.ListID
	Label       string
	ContainerID string
	Cards       []cardVM
}

func (c columnVM) Count() int { return len(c.Cards) }

type boardVM struct {
	Columns []columnVM
	Version uint64
}

type pageVM struct {
	Board   boardVM
	Key     string
	MinText int
	MaxText int
}

func newBoardVM(st model.AppState, version uint64) boardVM {
	vm := boardVM{Version: version}
	for _, id := range []model.ListID{model.ListPending, model.ListCompleted} {
		col := columnVM{List: id, Label: id.Label(), ContainerID: id.ContainerID()}
		for _, t := range st.List(id) {
			col.Cards = append(col.Cards, cardVM{
				ID:        t.ID,
				Text:      t.Text,
				Notes:     t.Notes,
				NotesHTML: renderMarkdownHTML(t.Notes),
			})
		}
		vm.Columns = append(vm.Columns, col)
	}
	return vm
}

func (s *Server) boardVM() boardVM {
	b := s.cfg.Board
	return newBoardVM(b.State(), b.Version())
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "index.html", pageVM{
		Board:   s.boardVM(),
		Key:     s.cfg.Board.Key(),
		MinText: mutate.MinTextLen,
		MaxText: mutate.MaxTextLen,
	})
}

// handleEvents streams `#board` patches: one on connect, then one per applied change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.cfg.Board.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(s.cfg.KeepAlive)
	defer keepAlive.Stop()

	patch := func() {
		html, err := s.renderTemplate("board", s.boardVM())
		if err != nil {
			s.log.Error("web: render board failed", "err", err)
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector(boardSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
	}

	patch()
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			patch()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func invalidText(w http.ResponseWriter) {
	http.Error(w, fmt.Sprintf("invalid task text: must be %d-%d characters after trimming", mutate.MinTextLen, mutate.MaxTextLen), http.StatusBadRequest)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	b := s.cfg.Board
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   b.State(),
		"version": b.Version(),
	})
}

type taskCreateReq struct {
	Text string `json:"text"`
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req taskCreateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !mutate.ValidateText(req.Text).Valid {
		invalidText(w)
		return
	}
	t, ok := s.cfg.Board.Add(r.Context(), req.Text)
	if !ok {
		http.Error(w, "add failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

type taskUpdateReq struct {
	Text  *string `json:"text,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

func (s *Server) handleTaskUpdate(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("taskId"))
	b := s.cfg.Board
	if _, _, ok := b.State().Find(id); !ok {
		http.NotFound(w, r)
		return
	}
	var req taskUpdateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == nil && req.Notes == nil {
		http.Error(w, "missing text or notes", http.StatusBadRequest)
		return
	}
	if req.Text != nil && !mutate.ValidateText(*req.Text).Valid {
		invalidText(w)
		return
	}

	changed := false
	if req.Text != nil {
		if _, ok := b.EditText(r.Context(), id, *req.Text); ok {
			changed = true
		}
	}
	if req.Notes != nil {
		if _, ok := b.EditNotes(r.Context(), id, *req.Notes); ok {
			changed = true
		}
	}
	t, _, ok := b.State().Find(id)
	if !ok {
		// Deleted by a concurrent request.
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": t, "changed": changed})
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("taskId"))
	t, ok := s.cfg.Board.Delete(r.Context(), id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": t})
}

// handleDragEnd feeds one drag-end event through the resolver. Events that resolve to
// nothing are answered with applied=false, not an error.
func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	var ev model.DragEnd
	if !decodeJSON(w, r, &ev) {
		return
	}
	ev.DraggedID = strings.TrimSpace(ev.DraggedID)
	ev.TargetID = strings.TrimSpace(ev.TargetID)

	b := s.cfg.Board
	mv, applied := b.DragEnd(r.Context(), ev)
	out := map[string]any{
		"applied": applied,
		"state":   b.State(),
	}
	if applied {
		out["move"] = mv
		s.log.Debug("web: drag applied", "task", mv.TaskID, "from", mv.From, "to", mv.To, "index", mv.ToIndex)
	}
	writeJSON(w, http.StatusOK, out)
}
