package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"genarity/internal/decl"
	"genarity/internal/engine"
	"genarity/internal/ui"
)

type runOutcome struct {
	result *engine.Result
	err    error
}

// runWithUI drives engine.Run while a progress program renders its events.
func runWithUI(ctx context.Context, title string, comp *decl.Compilation, opts engine.Options) (*engine.Result, error) {
	events := make(chan engine.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = engine.ChannelSink{Ch: events}
		res, err := engine.Run(ctx, comp, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, events), tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
