package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/importspy/importspy/pkg/pipeline"
	"github.com/importspy/importspy/pkg/render"
)

const debounceInterval = 300 * time.Millisecond

var watchSkipDirs = map[string]bool{
	".git":         true,
	"__pycache__":  true,
	"node_modules": true,
	"venv":         true,
	".venv":        true,
	"build":        true,
	"dist":         true,
}

// newWatchCmd creates the watch command: it re-runs the pipeline on
// every source change and serves the rendered graph with live reload.
func newWatchCmd() *cobra.Command {
	var (
		cfgPath string
		port    int
	)
	flagOpts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Watch a project and serve a live-updating import graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			opts, err := mergeOptions(cmd, cfgPath, flagOpts)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), root, port, opts)
		},
	}

	addPipelineFlags(cmd, &flagOpts)
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "TOML options file")
	cmd.Flags().IntVarP(&port, "port", "P", 4900, "HTTP server port")

	return cmd
}

func runWatch(ctx context.Context, root string, port int, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	// The viewer renders in-process; artifact writes stay opt-in.
	opts.Render = pipeline.RenderNever

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(logger)
	if err != nil {
		return err
	}

	rebuild := func() ([]byte, error) {
		result, err := runner.Execute(ctx, absRoot, opts)
		if err != nil {
			return nil, err
		}
		return render.RenderImage(ctx, result.DOT, "svg")
	}

	b := newBroker()
	svg, err := rebuild()
	if err != nil {
		return err
	}
	b.publish(svg)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}
	srv := newViewerServer(b)
	go srv.Serve(ln)
	defer srv.Close()

	printInfo("watching %s", StyleValue.Render(absRoot))
	printInfo("serving at %s", StyleLink.Render(fmt.Sprintf("http://localhost:%d", port)))

	return watchAndRebuild(ctx, absRoot, logger, b, rebuild)
}

func watchAndRebuild(ctx context.Context, root string, logger *log.Logger, b *broker, rebuild func() ([]byte, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRelevantChange(event) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, func() {
				svg, err := rebuild()
				if err != nil {
					printError("rebuild failed: %v", err)
					logger.Debug("rebuild error detail", "err", err)
					return
				}
				b.publish(svg)
			})
			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Ext(event.Name) == ".py" || filepath.Base(event.Name) == "pyproject.toml"
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if watchSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}

// broker manages SSE client connections and holds the latest rendered
// SVG for the viewer page.
type broker struct {
	mu      sync.Mutex
	clients map[chan struct{}]struct{}
	latest  []byte
}

func newBroker() *broker {
	return &broker{clients: make(map[chan struct{}]struct{})}
}

func (b *broker) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *broker) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.clients, ch)
	close(ch)
	b.mu.Unlock()
}

func (b *broker) publish(svg []byte) {
	b.mu.Lock()
	b.latest = svg
	for ch := range b.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *broker) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

func newViewerServer(b *broker) *http.Server {
	r := chi.NewRouter()
	r.Get("/", handleIndex)
	r.Get("/graph.svg", handleGraph(b))
	r.Get("/events", handleSSE(b))
	return &http.Server{Handler: r}
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func handleGraph(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(b.snapshot())
	}
}

func handleSSE(b *broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := b.subscribe()
		defer b.unsubscribe(ch)

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprint(w, "event: reload\ndata: graph\n\n")
				flusher.Flush()
			}
		}
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>importspy</title>
<style>
body { margin: 0; background: #ffffff; }
#graph { display: flex; justify-content: center; padding: 1rem; }
#graph svg { max-width: 100%; height: auto; }
</style>
</head>
<body>
<div id="graph"></div>
<script>
async function load() {
  const res = await fetch('/graph.svg?' + Date.now());
  document.getElementById('graph').innerHTML = await res.text();
}
new EventSource('/events').addEventListener('reload', load);
load();
</script>
</body>
</html>
`
