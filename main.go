// Rei is a line-mode Gemini browser driven by ed-style commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"rei/bookmarks"
	"rei/command"
	"rei/config"
	"rei/executor"
	"rei/fetcher"
	"rei/lineedit"
	"rei/render"
	"rei/session"
)

func log() commonlog.Logger { return commonlog.GetLogger("rei") }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.FormatError(err))
		cfg = config.Default()
	}

	if cfg.Log.File != "" {
		commonlog.Configure(cfg.Log.Verbosity, &cfg.Log.File)
	} else {
		commonlog.Configure(cfg.Log.Verbosity, nil)
	}

	marks := loadBookmarks(cfg.Bookmarks.Path)

	var hist *session.History
	sessionPath := ""
	if cfg.Session.Restore {
		sessionPath, hist = restoreSession()
	}

	client := fetcher.New(fetcher.Options{
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		MaxRedirects:   cfg.Fetcher.MaxRedirects,
	})
	exec := executor.New(client, hist, marks, os.Stdout)
	parser := command.NewParser(cfg.Display.PageSize)

	var in lineedit.Reader
	if render.IsTerminal(os.Stdin) && render.IsTerminal(os.Stdout) {
		in = lineedit.NewTerminal()
	} else {
		in = lineedit.NewPlain(os.Stdin, os.Stdout)
	}
	defer in.Close()

	ctx := context.Background()
	fmt.Println("Rei: A Line Mode Gemini Browser")
	if hist != nil {
		exec.Revisit(ctx)
	}

	loopErr := loop(ctx, in, parser, exec, cfg.Display.Prompt)

	if sessionPath != "" {
		if err := session.Save(sessionPath, exec.History()); err != nil {
			log().Errorf("saving session: %s", err)
		}
	}
	return loopErr
}

// loop reads and executes one command at a time until quit or end of input.
func loop(ctx context.Context, in lineedit.Reader, parser *command.Parser, exec *executor.Executor, prompt string) error {
	for {
		line, err := in.ReadLine(prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		cmd := parser.Parse(line, exec.Buffer())
		if exec.Execute(ctx, cmd) {
			return nil
		}
	}
}

// loadBookmarks loads the bookmark file, degrading to an empty map.
func loadBookmarks(path string) *bookmarks.Map {
	var (
		marks *bookmarks.Map
		err   error
	)
	if path != "" {
		marks, err = bookmarks.Load(path)
	} else {
		marks, err = bookmarks.LoadDefault()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return marks
}

// restoreSession returns the session file path and the history saved
// there, or a nil history when there is nothing to restore.
func restoreSession() (string, *session.History) {
	path, err := session.Path()
	if err != nil {
		log().Warningf("session: %s", err)
		return "", nil
	}
	hist, err := session.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log().Warningf("restoring session: %s", err)
		}
		return path, nil
	}
	return path, hist
}
