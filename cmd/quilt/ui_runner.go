package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quilt/internal/pack"
	"quilt/internal/ui"
)

type loadOutcome struct {
	results []pack.Result
	err     error
}

// runLoadWithUI drives pack loading behind the progress TUI. The load
// runs in a goroutine feeding events into the model; closing the channel
// ends the program.
func runLoadWithUI(ctx context.Context, title string, dirs []string, maxDiagnostics, jobs int) ([]pack.Result, error) {
	events := make(chan pack.Event, 256)
	outcomeCh := make(chan loadOutcome, 1)

	go func() {
		results, err := pack.LoadAll(ctx, dirs, maxDiagnostics, jobs, pack.ChannelSink{Ch: events})
		outcomeCh <- loadOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, dirs, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
