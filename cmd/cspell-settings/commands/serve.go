package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/werunom/vscode-spell-checker/internal/logging"
	"github.com/werunom/vscode-spell-checker/internal/server"
	"github.com/werunom/vscode-spell-checker/internal/watcher"
)

var (
	servePort     int
	serveHostname string
	serveNoWatch  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the settings HTTP server",
	Long: `Start an HTTP server that resolves settings with a live cache.

Settings files in the workspace folders, imported files and the user
settings file are watched; any change resets the cache.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 4096, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "127.0.0.1", "Hostname to listen on")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not watch settings files")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	logging.Info().
		Str("version", Version).
		Strs("folders", rt.roots).
		Strs("imports", rt.imports).
		Msg("starting cspell-settings server")

	deps := server.Deps{
		Settings:  rt.docs,
		Workspace: rt.workspace,
		Fs:        rt.fs,
		Bus:       rt.bus,
	}

	if !serveNoWatch {
		files := append([]string{}, rt.imports...)
		if p := rt.workspace.UserSettingsPath(); p != "" {
			files = append(files, p)
		}
		w, err := watcher.New(rt.docs, watcher.Options{
			Roots: rt.roots,
			Files: files,
			Bus:   rt.bus,
		})
		if err != nil {
			return err
		}
		w.Start()
		defer w.Stop()
		deps.Watcher = w
	}

	serverConfig := server.DefaultConfig()
	serverConfig.Host = serveHostname
	serverConfig.Port = servePort
	srv := server.New(serverConfig, deps)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("host", serveHostname).Int("port", servePort).Msg("server listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}

	logging.Info().Msg("server stopped")
	return nil
}
