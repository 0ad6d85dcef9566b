package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/suppai/internal/checksum"
	"github.com/starford/suppai/internal/models"
	"github.com/starford/suppai/internal/view"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static
var staticFiles embed.FS

var pageNames = []string{"home", "agent", "interaction", "docs", "error"}

// Renderer executes the page templates. Each page is parsed together with
// the shared layout.
type Renderer struct {
	fsys fs.FS
	dir  string

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// NewRenderer parses templates from dir, or from the embedded copy when dir
// is empty.
func NewRenderer(dir string) (*Renderer, error) {
	r := &Renderer{dir: dir}
	if dir == "" {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		r.fsys = sub
	} else {
		r.fsys = os.DirFS(dir)
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses every page. The previous set stays active on error.
func (r *Renderer) Reload() error {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(r.fsys, "layout.html", name+".html")
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Render writes page with status. The page is executed into a buffer first
// so a template error still yields a clean 500. Successful pages carry a
// weak ETag and answer a matching If-None-Match with 304.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, data any) error {
	r.mu.RLock()
	t, ok := r.pages[page]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	if status == http.StatusOK {
		etag := checksum.WeakETag(buf.Bytes())
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if checksum.Matches(req.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return nil
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Watch re-parses templates when files under the template directory change.
// Bursts of events are coalesced. It returns when ctx is done.
func (r *Renderer) Watch(ctx context.Context, logger *slog.Logger) error {
	if r.dir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		return err
	}
	logger.Info("template watcher: started", slog.String("dir", r.dir))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("template watcher: stopped")
			return nil

		case <-debounceCh:
			debounce, debounceCh = nil, nil
			if err := r.Reload(); err != nil {
				logger.Error("template watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("template watcher: reloaded")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != ".html" {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(100 * time.Millisecond)
				debounceCh = debounce.C
			} else {
				debounce.Reset(100 * time.Millisecond)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("template watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

var funcs = template.FuncMap{
	"number":    view.FormatNumber,
	"paperMeta": view.PaperMeta,
	"truncate":  view.Truncate,
	"plural": func(word string, n int) string {
		return view.Pluralize(word, n)
	},
	"countOf": func(word string, n int) string {
		return view.FormatNumber(n) + " " + view.Pluralize(word, n)
	},
	"sentence": func(s models.SupportingSentence, agents map[string]*models.Agent) []view.Segment {
		return view.SentenceSegments(s, agents)
	},
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}
