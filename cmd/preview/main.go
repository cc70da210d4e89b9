// Command preview serves a page description as rendered HTML. In dev mode it
// watches the page and business files, drops the session cache on change and
// live-reloads connected browsers.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pagecraft/pagecraft"
	"github.com/pagecraft/pagecraft/internal/reload"
	"github.com/pagecraft/pagecraft/internal/types"
)

func main() {
	pageFile := flag.String("page", "page.json", "page description file")
	businessFile := flag.String("business", "business.yaml", "business record file")
	configFile := flag.String("config", "pagecraft.yaml", "session config file")
	addr := flag.String("addr", ":8090", "listen address")
	watch := flag.Bool("watch", false, "watch input files and live-reload")
	editMode := flag.Bool("edit", false, "render in edit mode (no output caching)")
	flag.Parse()

	logger := slog.Default()

	cfg, err := pagecraft.LoadConfig(*configFile)
	if err != nil {
		fatal(logger, "failed to load config", err)
	}

	session, err := pagecraft.New(
		pagecraft.WithConfig(cfg),
		pagecraft.WithLogger(logger),
	)
	if err != nil {
		fatal(logger, "failed to create session", err)
	}
	defer session.Close()

	hub := reload.NewHub()

	if *watch {
		watcher, err := reload.Watch([]string{*pageFile, *businessFile}, func(path string) {
			session.ClearCache()
			hub.Notify()
		}, logger)
		if err != nil {
			fatal(logger, "failed to start watcher", err)
		}
		defer watcher.Close()
	}

	mux := http.NewServeMux()
	mux.Handle("/__reload", hub)
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		page, err := loadPage(*pageFile)
		if err != nil {
			serveError(w, err)
			return
		}
		business, err := loadBusiness(*businessFile)
		if err != nil {
			serveError(w, err)
			return
		}

		var opts []pagecraft.RenderOption
		if *editMode {
			opts = append(opts, pagecraft.WithEditMode())
		}

		out, err := session.RenderPage(page, business, opts...)
		if err != nil {
			serveError(w, err)
			return
		}

		body := out.HTML
		if *watch {
			body += "\n" + reload.Script
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, pageShell, html.EscapeString(page.Title), body)
	})

	logger.Info("preview server listening", "addr", *addr, "page", *pageFile, "watch", *watch)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		fatal(logger, "server failed", err)
	}
}

const pageShell = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>%s</title>
  </head>
  <body>
%s
  </body>
</html>
`

func loadPage(path string) (types.PageDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PageDescription{}, fmt.Errorf("failed to read page file: %w", err)
	}
	var page types.PageDescription
	if err := json.Unmarshal(data, &page); err != nil {
		return types.PageDescription{}, fmt.Errorf("failed to parse page file %s: %w", path, err)
	}
	return page, nil
}

func loadBusiness(path string) (types.BusinessContext, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return types.BusinessContext{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read business file: %w", err)
	}
	var business types.BusinessContext
	if err := yaml.Unmarshal(data, &business); err != nil {
		return nil, fmt.Errorf("failed to parse business file %s: %w", path, err)
	}
	return business, nil
}

func serveError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "<!doctype html><html><body><pre>%s</pre></body></html>", html.EscapeString(err.Error()))
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
