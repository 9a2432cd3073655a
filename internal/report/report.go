package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.mongodb.org/mongo-driver/bson"
)

const DefaultWindow = 24 * time.Hour

// EventReader is the read side of the event store.
type EventReader interface {
	FindSince(ctx context.Context, since time.Time) ([]bson.D, error)
}

var (
	titleColor  = color.New(color.FgBlue, color.Bold)
	headerColor = color.New(color.Bold)
	countColor  = color.New(color.FgYellow)
	emptyColor  = color.New(color.FgYellow)
)

type Reporter struct {
	reader EventReader
	out    io.Writer
	window time.Duration
	now    func() time.Time
}

func NewReporter(reader EventReader, out io.Writer, window time.Duration) *Reporter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Reporter{
		reader: reader,
		out:    out,
		window: window,
		now:    time.Now,
	}
}

// Run prints every event newer than the window, most recent first, and
// returns the number printed.
func (r *Reporter) Run(ctx context.Context) (int, error) {
	span := describeWindow(r.window)

	titleColor.Fprintf(r.out, "Fetching logs from the last %s...\n\n", span)

	docs, err := r.reader.FindSince(ctx, r.now().Add(-r.window))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	if len(docs) == 0 {
		emptyColor.Fprintf(r.out, "No logs found in the last %s.\n", span)
		return 0, nil
	}

	fmt.Fprintf(r.out, "%s%s%s\n\n",
		headerColor.Sprint("Found "),
		countColor.Sprint(len(docs)),
		headerColor.Sprintf(" logs in the last %s:", span),
	)

	for _, doc := range docs {
		fmt.Fprintf(r.out, "%s\n\n", Colorize(doc))
	}
	return len(docs), nil
}

// describeWindow renders whole hours as "24 hours"; anything else falls back
// to the duration's own formatting.
func describeWindow(d time.Duration) string {
	if d%time.Hour != 0 {
		return d.String()
	}
	hours := int(d / time.Hour)
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
