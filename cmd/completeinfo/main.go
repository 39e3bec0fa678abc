package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jask/completeinfo/internal/api"
	"github.com/jask/completeinfo/internal/config"
	"github.com/jask/completeinfo/internal/database"
	"github.com/jask/completeinfo/internal/database/repository"
	"github.com/jask/completeinfo/internal/logs"
	"github.com/jask/completeinfo/internal/loop"
	"github.com/jask/completeinfo/internal/nets"
	"github.com/jask/completeinfo/internal/remoting"
	"github.com/jask/completeinfo/internal/secrets"
	"github.com/jask/completeinfo/internal/service"
	"github.com/jask/completeinfo/internal/tui"
)

func main() {
	fs := pflag.NewFlagSet("completeinfo", pflag.ContinueOnError)
	fs.Usage = func() { usage(fs) }
	config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	name, args := "ui", fs.Args()
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	command, ok := commands[name]
	if !ok {
		fmt.Fprintln(os.Stderr, unknownCommand(name))
		os.Exit(2)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := command.run(context.Background(), cfg, args); err != nil {
		log.Fatalf("%s: %v", name, err)
	}
}

type command struct {
	summary string
	run     func(ctx context.Context, cfg config.Config, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ui":      {summary: "interactive client (default)", run: runUI},
		"fetch":   {summary: "fetch [id]: fetch one user and print the result", run: runFetch},
		"history": {summary: "history [n|clear]: list the last n fetches or clear them", run: runHistory},
		"config":  {summary: "print the effective configuration", run: runConfig},
		"login":   {summary: "login <value>: store an Authorization value for the server", run: runLogin},
		"logout":  {summary: "forget the stored Authorization value for the server", run: runLogout},
	}
}

func usage(fs *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: completeinfo [flags] [command] [args]")
	fmt.Fprintln(os.Stderr, "\ncommands:")
	for _, name := range commandNames() {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(os.Stderr, "\nflags:")
	fs.PrintDefaults()
}

func runUI(ctx context.Context, cfg config.Config, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal; use `completeinfo fetch` instead")
	}
	logger, closeLog, err := logs.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	fetcher, closeDB, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	view := tui.NewView(api.NewUserID(cfg.UI.DefaultUserID))
	p := tea.NewProgram(tui.New(ctx, fetcher, view, logger), opts...)
	_, err = p.Run()
	return err
}

func runFetch(ctx context.Context, cfg config.Config, args []string) error {
	id := cfg.UI.DefaultUserID
	if len(args) > 0 {
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		id = uint32(n)
	}
	logger, closeLog, err := logs.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	fetcher, closeDB, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	rt := loop.NewRuntime(ctx, fetcher, loop.WithLogger(logger))
	rt.Dispatch(loop.GetUser{ID: api.NewUserID(id)})
	rt.Wait()
	fmt.Println(rt.State().Text)
	return nil
}

func runHistory(ctx context.Context, cfg config.Config, args []string) error {
	limit := 10
	wipe := len(args) > 0 && args[0] == "clear"
	if len(args) > 0 && !wipe {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		limit = n
	}
	if cfg.Database.Path == "" {
		return errors.New("fetch history disabled (database.path is empty)")
	}
	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if wipe {
		n, err := (&service.MaintenanceService{DB: db}).ClearHistory(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("cleared %d fetches\n", n)
		return nil
	}

	entries, err := repository.NewFetchLogRepo(db).Recent(ctx, limit)
	if err != nil {
		return err
	}
	printHistory(os.Stdout, entries)
	return nil
}

func runConfig(_ context.Context, cfg config.Config, _ []string) error {
	return config.Encode(os.Stdout, cfg)
}

func runLogin(_ context.Context, cfg config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: completeinfo login <authorization value>")
	}
	if err := secrets.StoreToken(cfg.Server.BaseURL, args[0]); err != nil {
		return err
	}
	fmt.Printf("stored authorization for %s\n", cfg.Server.BaseURL)
	return nil
}

func runLogout(_ context.Context, cfg config.Config, _ []string) error {
	return secrets.DeleteToken(cfg.Server.BaseURL)
}

// authorization prefers the configured value and falls back to the token
// stored by `completeinfo login`.
func authorization(cfg config.Config, logger *slog.Logger) string {
	if cfg.Server.Authorization != "" {
		return cfg.Server.Authorization
	}
	token, err := secrets.FetchToken(cfg.Server.BaseURL)
	if err != nil {
		if !errors.Is(err, secrets.ErrNoToken) {
			logger.Warn("stored authorization unreadable", "error", err)
		}
		return ""
	}
	return token
}

func newFetcher(cfg config.Config, logger *slog.Logger) (*service.Fetcher, func(), error) {
	httpClient, err := nets.NewHTTPClient(cfg.Server.Proxy)
	if err != nil {
		return nil, nil, err
	}
	proxy := remoting.CreateAPI().
		WithBaseURL(cfg.Server.BaseURL).
		WithHTTPClient(httpClient).
		WithLogger(logger)
	if auth := authorization(cfg, logger); auth != "" {
		proxy = proxy.WithAuthorizationHeader(auth)
	}
	userAPI, err := api.NewUserAPI(proxy)
	if err != nil {
		return nil, nil, err
	}

	fetcher := &service.Fetcher{API: userAPI, Logger: logger, Timeout: cfg.Server.Timeout}
	closeDB := func() {}
	if cfg.Database.Path != "" {
		db, err := openDB(cfg.Database.Path)
		if err != nil {
			logger.Warn("fetch history unavailable", "error", err)
		} else {
			fetcher.History = repository.NewFetchLogRepo(db)
			closeDB = func() { _ = db.Close() }
		}
	}
	return fetcher, closeDB, nil
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func printHistory(w io.Writer, entries []repository.FetchLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no fetches recorded")
		return
	}
	for _, e := range entries {
		detail := ""
		switch {
		case e.Name != nil:
			detail = *e.Name
		case e.Error != nil:
			detail = *e.Error
		}
		fmt.Fprintf(w, "%s  user %-6d %-9s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.UserID, e.Outcome, detail)
	}
}
