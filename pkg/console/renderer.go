package console

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/travigo/liveboard/pkg/board"
	"github.com/travigo/liveboard/pkg/countdown"
	"github.com/travigo/liveboard/pkg/ctdf"
)

// Renderer writes the board tables and platform countdowns as plain text.
// Every render writes the full picture so the output never depends on what was shown before.
type Renderer struct {
	Out io.Writer

	// ClearScreen prefixes every frame with an ANSI clear, used by the watch command
	ClearScreen bool

	mutex      sync.Mutex
	feedOrder  []string
	feedNames  map[string]string
	snapshots  map[string]ctdf.FeedSnapshot
	countdowns []countdown.Display
}

// NewRenderer creates a renderer that shows feeds in the given order, names are used as table headings
func NewRenderer(out io.Writer, feedOrder []string, feedNames map[string]string) *Renderer {
	return &Renderer{
		Out:       out,
		feedOrder: feedOrder,
		feedNames: feedNames,
		snapshots: map[string]ctdf.FeedSnapshot{},
	}
}

func (r *Renderer) BoardChanged(change board.Change) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.snapshots[change.FeedID] = change.Snapshot
	r.render()
}

func (r *Renderer) RenderCountdowns(displays []countdown.Display) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.countdowns = displays
	r.render()
}

func (r *Renderer) render() {
	if r.ClearScreen {
		fmt.Fprint(r.Out, "\033[H\033[2J")
	}

	for _, display := range r.countdowns {
		fmt.Fprintf(r.Out, "Platform %s  %-8s %s\n", display.Platform, display.Text, display.Destination)
	}
	if len(r.countdowns) > 0 {
		fmt.Fprintln(r.Out)
	}

	for _, feedID := range r.feedOrder {
		snapshot, exists := r.snapshots[feedID]
		if !exists {
			continue
		}

		r.renderFeed(feedID, snapshot)
	}
}

func (r *Renderer) renderFeed(feedID string, snapshot ctdf.FeedSnapshot) {
	heading := r.feedNames[feedID]
	if heading == "" {
		heading = feedID
	}

	if snapshot.IsStale() {
		heading = fmt.Sprintf("%s (stale since %s)", heading, snapshot.FetchedAt.Format("15:04:05"))
	}
	fmt.Fprintln(r.Out, heading)

	rows := ctdf.GenerateDepartureBoardRows(snapshot.Services)
	if len(rows) == 0 {
		fmt.Fprintln(r.Out, "  No services")
		fmt.Fprintln(r.Out)
		return
	}

	writer := tabwriter.NewWriter(r.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "  Time\tDestination\tPlat\tExpected")
	for _, row := range rows {
		destination := row.Destination
		if row.Via != "" {
			destination = fmt.Sprintf("%s %s", destination, row.Via)
		}

		fmt.Fprintf(writer, "  %s\t%s\t%s\t%s\n", row.ScheduledTime, destination, row.Platform, row.StatusText)
	}
	writer.Flush()
	fmt.Fprintln(r.Out)
}
