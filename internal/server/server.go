// internal/server/server.go
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"fromthedepths/internal/builder"
)

// BuildFunc runs one build pass.
type BuildFunc func(ctx context.Context, opts builder.BuildOptions) error

const debounceDuration = 500 * time.Millisecond

// watchedExts are the file types whose changes trigger a rebuild.
var watchedExts = map[string]bool{
	".mdx":  true,
	".md":   true,
	".html": true,
	".yaml": true,
	".yml":  true,
	".css":  true,
	".js":   true,
}

// Run builds the site once, serves root on port and rebuilds whenever a
// file below watchPaths changes. It returns when ctx is cancelled.
func Run(ctx context.Context, port int, root string, buildFunc BuildFunc, opts builder.BuildOptions, watchPaths []string) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts.CleanDestination = true
	if err := buildFunc(ctx, opts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	w := &watch{watcher: watcher, logger: logger, dirs: make(map[string]bool)}
	for _, path := range watchPaths {
		if err := w.addPath(path); err != nil {
			return err
		}
	}

	opts.CleanDestination = false
	go w.loop(ctx, hub, buildFunc, opts)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(rw http.ResponseWriter, r *http.Request) {
		serveWs(hub, rw, r)
	})
	mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(root))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Serving site on http://localhost%s\n", srv.Addr)
	fmt.Println("Press Ctrl+C to stop")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type watch struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	// dirs avoids adding the same directory twice.
	dirs map[string]bool
}

func (w *watch) addDir(dir string) {
	dir = filepath.Clean(dir)
	if w.dirs[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("could not watch directory", "dir", dir, "err", err)
		return
	}
	w.logger.Debug("watching directory", "dir", dir)
	w.dirs[dir] = true
}

// addPath watches a directory tree, or the parent of a single file so that
// editors which save through a swap file are still seen.
func (w *watch) addPath(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not stat path %s: %w", path, err)
	}
	if !info.IsDir() {
		w.addDir(filepath.Dir(path))
		return nil
	}
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			w.addDir(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", path, err)
	}
	return nil
}

func (w *watch) loop(ctx context.Context, hub *Hub, buildFunc BuildFunc, opts builder.BuildOptions) {
	timer := time.NewTimer(debounceDuration)
	timer.Stop()
	var changed string

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addPath(event.Name)
					continue
				}
			}
			if !triggersRebuild(event) {
				continue
			}
			changed = event.Name
			timer.Reset(debounceDuration)
		case <-timer.C:
			w.logger.Info("change detected, rebuilding", "file", changed)
			if err := buildFunc(ctx, opts); err != nil {
				w.logger.Error("rebuild failed", "err", err)
				continue
			}
			hub.broadcastMessage([]byte("reload"))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// triggersRebuild reports whether event touches a source file. Editor
// backups and hidden files are ignored.
func triggersRebuild(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return watchedExts[strings.ToLower(filepath.Ext(base))]
}

func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		body := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(body)
			return
		}

		injected := bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injected)))
		w.WriteHeader(iw.statusCode)
		w.Write(injected)
	})
}

type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection error. Please restart 'depths serve'.");
    };
  })();
</script>
`
