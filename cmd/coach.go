package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/etnz/savetrack"
	"github.com/etnz/savetrack/coach"
	"google.golang.org/genai"
)

func runCoach(ctx context.Context, t *savetrack.Tracker, prompt string) error {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fmt.Errorf("error initializing Gemini's client: %w", err)
	}

	currency := currentSettings().Currency
	source := func() (savetrack.Snapshot, time.Time) { return t.Snapshot(currency), Now() }

	c := coach.New(source, os.Stdout, os.Stdin)
	if err := c.Run(ctx, client, prompt); err != nil {
		return fmt.Errorf("coach failed: %w", err)
	}
	return nil
}
