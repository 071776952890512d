package matchwatch

import (
	"context"
	"fmt"
	"sync"
	"trackwrestling-backend/internal/components/assert"
	"trackwrestling-backend/internal/components/chrono"
	"trackwrestling-backend/internal/components/telemetry"
	"trackwrestling-backend/lib/notify"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/matchwatch")

const (
	report_watch_poll    = "watch.poll"
	report_watch_notify  = "watch.notify"
	report_watch_tracked = "watch.tracked"
)

const DefaultSchedule = "@every 30s"

// Target is one tournament to watch.
type Target struct {
	EventType tw.EventType `json:"type"`
	ID        int64        `json:"id"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.EventType.Alias(), t.ID)
}

type Options struct {
	// Schedule is a cron spec, it defaults to DefaultSchedule.
	Schedule    string
	Tournaments []Target
	// Follow lists wrestler names, nobody followed means every match is
	// reported.
	Follow          []string
	FollowThreshold float64
}

// MatchSource is satisfied by *core.Client and the api's client pool.
type MatchSource interface {
	MatAssignments(ctx context.Context, eventType tw.EventType, tournamentId int64) ([]tw.Match, error)
}

// Watcher polls mat assignments and notifies about changes to followed
// matches. The first poll of a tournament only records its state.
type Watcher struct {
	source   MatchSource
	notifier notify.Notifier
	tel      telemetry.API
	opts     Options
	follow   followFilter

	mutex     sync.Mutex
	snapshots map[Target]snapshot
}

func NewWatcher(source MatchSource, notifier notify.Notifier, opts Options, tel telemetry.API) *Watcher {
	assert.NotNil(source)
	assert.NotNil(notifier)
	assert.NotNil(tel)

	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	return &Watcher{
		source:    source,
		notifier:  notifier,
		tel:       telemetry.NewScopedAPI("matchwatch", tel),
		opts:      opts,
		follow:    newFollowFilter(opts.Follow, opts.FollowThreshold),
		snapshots: map[Target]snapshot{},
	}
}

// Start schedules Tick on the watcher's schedule. It is a no-op without
// tournaments.
func (w *Watcher) Start(ctx context.Context, cron chrono.CronAPI) error {
	if len(w.opts.Tournaments) == 0 {
		return nil
	}
	return cron.Cron(w.opts.Schedule, func() {
		w.Tick(ctx)
	})
}

// Tick polls every tournament once.
func (w *Watcher) Tick(ctx context.Context) {
	for _, target := range w.opts.Tournaments {
		if ctx.Err() != nil {
			return
		}
		_, _ = w.Poll(ctx, target)
	}
}

// Poll fetches one tournament, records the new snapshot and sends a
// notification for every followed change. Notification failures are
// reported but do not fail the poll.
func (w *Watcher) Poll(ctx context.Context, target Target) ([]Change, error) {
	ctx, span := tracer.Start(ctx, "Poll")
	defer span.End()
	span.SetAttributes(attribute.String("tournament", target.String()))

	matches, err := w.source.MatAssignments(ctx, target.EventType, target.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.tel.ReportBroken(report_watch_poll, err, target.String())
		return nil, err
	}
	w.tel.ReportCount(report_watch_tracked, int64(len(matches)))

	w.mutex.Lock()
	previous, seeded := w.snapshots[target]
	w.snapshots[target] = newSnapshot(matches)
	w.mutex.Unlock()

	if !seeded {
		w.tel.ReportDebug("seeded snapshot", target.String(), len(matches))
		return nil, nil
	}

	var followed []Change
	for _, change := range diff(previous, matches) {
		if !w.follow.Match(change.Match) {
			continue
		}
		followed = append(followed, change)

		err := w.notifier.Notify(ctx, change.Message())
		if err != nil {
			w.tel.ReportWarning(report_watch_notify, err, target.String(), change.Kind)
		}
	}
	return followed, nil
}
