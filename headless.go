package main

import (
	"context"
	"fmt"
	"io"

	"wikipath/internal/config"
	"wikipath/internal/domain"
	"wikipath/internal/runner"
	"wikipath/internal/ui/views"
)

// Exit codes of --once
const (
	exitFound     = 0
	exitFailed    = 1
	exitUsage     = 2
	exitCancelled = 130
)

// consolePresenter prints what the run controller decides
type consolePresenter struct {
	out    io.Writer
	errOut io.Writer
	base   string
}

func (p *consolePresenter) ShowLoader() {
	fmt.Fprintln(p.errOut, "Searching for a path…")
}

func (p *consolePresenter) HideLoader() {}

func (p *consolePresenter) ShowResults(res domain.Success) {
	fmt.Fprintln(p.out, views.PlainPath(res))
	for i, name := range res.Links {
		fmt.Fprintf(p.out, "%d. %s  %s\n", i+1, name, views.ArticleURL(p.base, name))
	}
	fmt.Fprintln(p.out, views.ElapsedLine(res.ElapsedSeconds))
}

func (p *consolePresenter) ShowError(message string) {
	fmt.Fprintf(p.errOut, "Search error: %s\n", message)
}

func (p *consolePresenter) CloseModal() {}

// runOnce performs a single search. Cancelling ctx aborts it and notifies the server.
func runOnce(ctx context.Context, svc runner.Service, cfg *config.Config, req domain.RunRequest, out, errOut io.Writer) int {
	rc := runner.New(svc, &consolePresenter{out: out, errOut: errOut, base: cfg.UISettings.WikiBaseURL}, runner.Options{
		CancelTimeout: cfg.Server.CancelTimeout(),
	})

	call, err := rc.Submit(req)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return exitUsage
	}

	done := make(chan runner.Outcome, 1)
	go func() { done <- call() }()

	select {
	case o := <-done:
		rc.Apply(o)
	case <-ctx.Done():
		rc.Cancel()
		rc.Wait()
		fmt.Fprintln(errOut, "Search cancelled")
		return exitCancelled
	}

	switch rc.Mode() {
	case domain.ModeShowingResults:
		return exitFound
	case domain.ModeShowingError:
		return exitFailed
	}
	fmt.Fprintf(errOut, "Search failed: %v\n", rc.LastError())
	return exitFailed
}
