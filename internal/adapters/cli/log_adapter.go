package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/example/ledger/internal/ports/primary"
)

// LogAdapter translates CLI operations to LogService calls.
type LogAdapter struct {
	service primary.LogService
	out     io.Writer
	output  Output
	poll    time.Duration
}

// NewLogAdapter creates a new LogAdapter with the given service.
func NewLogAdapter(service primary.LogService, out io.Writer, output Output) *LogAdapter {
	return &LogAdapter{
		service: service,
		out:     out,
		output:  output,
		poll:    time.Second,
	}
}

// Tail prints matching entries oldest first. With follow set it keeps
// polling for newer entries until ctx is done.
func (a *LogAdapter) Tail(ctx context.Context, filters primary.LogFilters, follow bool) error {
	entries, err := a.service.ListLogs(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}

	if ok, err := a.output.structured(a.out, entries); ok {
		return err
	}

	if len(entries) == 0 && !follow {
		fmt.Fprintln(a.out, "No log entries found")
		return nil
	}
	for i := len(entries) - 1; i >= 0; i-- {
		a.printEntry(entries[i])
	}
	if !follow {
		return nil
	}

	var last string
	if len(entries) > 0 {
		last = entries[0].ID
	}

	ticker := time.NewTicker(a.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		fresh, err := a.service.ListLogs(ctx, filters)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to fetch logs: %w", err)
		}
		last = a.printNewer(fresh, last)
	}
}

// printNewer prints the entries that come after last and returns the newest ID.
func (a *LogAdapter) printNewer(entries []*primary.LogEntry, last string) string {
	cut := len(entries)
	for i, e := range entries {
		if e.ID == last {
			cut = i
			break
		}
	}
	for i := cut - 1; i >= 0; i-- {
		a.printEntry(entries[i])
	}
	if len(entries) > 0 {
		return entries[0].ID
	}
	return last
}

// Prune deletes entries older than days.
func (a *LogAdapter) Prune(ctx context.Context, days int) error {
	count, err := a.service.PruneLogs(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to prune logs: %w", err)
	}

	if count == 0 {
		fmt.Fprintf(a.out, "No log entries older than %d days found\n", days)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Pruned %d log entries older than %d days\n", count, days)
	return nil
}

var (
	actionCreate = color.New(color.FgGreen)
	actionUpdate = color.New(color.FgYellow)
	actionDelete = color.New(color.FgRed)
)

func actionMark(action string) string {
	switch action {
	case "create":
		return actionCreate.Sprint("+")
	case "update":
		return actionUpdate.Sprint("~")
	case "delete":
		return actionDelete.Sprint("-")
	}
	return "?"
}

func (a *LogAdapter) printEntry(e *primary.LogEntry) {
	fmt.Fprintf(a.out, "%s  %s %-6s  %s/%s", formatLogTime(e.CreatedAt), actionMark(e.Action), e.Action, e.EntityType, e.EntityID)
	if e.FieldName != "" {
		old := e.OldValue
		if old == "" {
			old = "?"
		}
		fmt.Fprintf(a.out, "  %s: %s -> %s", e.FieldName, old, e.NewValue)
	}
	fmt.Fprintln(a.out)
}

// formatLogTime accepts SQLite's datetime form and RFC 3339.
func formatLogTime(ts string) string {
	for _, layout := range []string{time.DateTime, time.RFC3339} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format(time.DateTime)
		}
	}
	return ts
}
