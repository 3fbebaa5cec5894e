// Command filament-devserver boots a wshost-backed Runtime behind an HTTP
// server: one WebSocket connection per browser tab, each mounting its own
// copy of Demo, mirroring the teacher's own cmd/vango CLI shape (a cobra
// root command with a serve subcommand) adapted to this module's BackEnd
// rather than the teacher's session protocol.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	filament "github.com/filament-ui/filament"
	"github.com/filament-ui/filament/pkg/backend/wshost"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filament-devserver",
		Short: "Run a demo filament Runtime behind a WebSocket-streamed BackEnd",
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the devserver version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the devserver, mounting Demo for every connected page",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	return cmd
}

func serve(addr string) error {
	logger := slog.Default().With("component", "devserver")

	hub := wshost.NewHub(logger)
	hub.OnConnect = func(ctx context.Context, conn *wshost.Connection) {
		rt := filament.NewRuntime(conn)
		defer rt.Close()

		container := conn.CreateElement("div", "http://www.w3.org/1999/xhtml")
		if err := rt.Mount(container, Demo); err != nil {
			logger.Error("mount failed", "error", err)
			return
		}
		defer rt.Unmount()

		conn.ReadLoop()
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", serveBootstrap)
	hub.Mount(r, "/ws")

	logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}

func serveBootstrap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, bootstrapHTML)
}

// bootstrapHTML is a stub landing page showing where a companion browser
// client would attach; writing that client (applying wshost's patch wire
// format to a real document and forwarding events back) is outside this
// module's scope, which ends at the BackEnd contract.
const bootstrapHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>filament devserver</title></head>
<body>
<div id="app"></div>
<script>
var ws = new WebSocket("ws://" + location.host + "/ws");
</script>
</body>
</html>`
