// Command mcpserver runs the MCP runtime over either stdio or HTTP+SSE,
// grounded on application.py's transport branch in handle_request.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/server"
	"github.com/richard-senior/mcp/pkg/transport"
)

func main() {
	var (
		transportName = flag.String("transport", "stdio", "transport to serve: stdio or sse")
		addr          = flag.String("addr", ":8089", "listen address for the sse transport")
		serverName    = flag.String("server-name", "mcp", "name advertised in initialize")
		version       = flag.String("version", "0.1.0", "version advertised in initialize")
		pingTimeout   = flag.Int("ping-timeout", 5, "seconds of outbound silence before a session is pinged")
		chunkSize     = flag.Int("chunk-size", protocol.DefaultChunkSize, "streaming chunk size in bytes, must be a multiple of 3")
		sessionLog    = flag.String("session-log", defaultSessionLogPath(), "path to the sqlite session-log database (empty disables it)")
		verbose       = flag.Bool("v", false, "prefix log lines with date and time (the log level is unchanged)")
	)
	flag.Parse()

	if *verbose {
		logger.SetShowDateTime(true)
	}

	cfg := server.Config{
		ServerName:         *serverName,
		Version:            *version,
		PingTimeoutSeconds: *pingTimeout,
		ChunkSize:          *chunkSize,
	}

	if err := protocol.ValidateChunkSize(cfg.ChunkSize); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rt, err := server.NewRuntime(cfg, *sessionLog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *transportName {
	case "stdio":
		t := transport.NewStdio(os.Stdin, os.Stdout)
		if err := server.RunStdio(ctx, rt, t); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "sse":
		httpServer := server.NewHTTPServer(rt)
		srv := &http.Server{Addr: *addr, Handler: httpServer.Mux()}

		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()

		logger.Info("mcp server listening", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown transport %q (want stdio or sse)\n", *transportName)
		os.Exit(1)
	}
}

func defaultSessionLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mcp", "sessions.db")
}
