// internal/app/poller.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// State is a step of the poll cycle.
type State string

const (
	StateFetching     State = "FETCHING"
	StateInterpreting State = "INTERPRETING"
	StateNotifying    State = "NOTIFYING"
	StateSleeping     State = "SLEEPING"
	StateRecovering   State = "RECOVERING"
)

const failureMessageFormat = "Bot failed with error: %v"

type PollerOption func(*Poller)

// WithClock overrides the wall clock used for the initial cursor and schedule.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

// WithSleep overrides how the poller waits between cycles.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) PollerOption {
	return func(p *Poller) { p.sleep = sleep }
}

// WithStatus makes the poller publish its progress into s.
func WithStatus(s *Status) PollerOption {
	return func(p *Poller) { p.status = s }
}

// Poller runs the fetch, interpret, notify, sleep cycle and recovers from
// any failure inside a cycle. It is not safe for concurrent use; read its
// progress through Status.
type Poller struct {
	source   homework.StatusSource
	notifier domainTelegram.Client
	schedule cron.Schedule
	cooldown time.Duration
	logger   *logrus.Entry
	status   *Status
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	cursor int64
}

func NewPoller(
	source homework.StatusSource,
	notifier domainTelegram.Client,
	schedule cron.Schedule,
	cooldown time.Duration,
	logger *logrus.Entry,
	opts ...PollerOption,
) *Poller {
	p := &Poller{
		source:   source,
		notifier: notifier,
		schedule: schedule,
		cooldown: cooldown,
		logger:   logger,
		status:   NewStatus(),
		now:      time.Now,
		sleep:    scheduler.Sleep,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Status returns the tracker the poller publishes into.
func (p *Poller) Status() *Status {
	return p.status
}

// Run polls until ctx is cancelled. Failures inside a cycle never end the loop.
func (p *Poller) Run(ctx context.Context) error {
	p.cursor = p.now().Unix() // Only changes reported after startup are relayed
	p.status.start(p.cursor, p.now())
	p.logger.WithField("cursor", p.cursor).Info("Poller started")

	for {
		cycleLog := p.logger.WithField("cycle_id", uuid.NewString())

		next, err := p.cycle(ctx, cycleLog)
		if ctx.Err() != nil {
			break // Shutdown, not a failure worth reporting
		}

		var wait time.Duration
		if err != nil {
			// Cursor stays put so the same window is fetched again.
			p.handleFailure(ctx, cycleLog, err)
			wait = p.cooldown
		} else {
			p.cursor = next
			p.status.succeeded(next, p.now())
			p.enter(cycleLog, StateSleeping)
			wait = scheduler.Until(p.schedule, p.now())
		}

		cycleLog.WithFields(logrus.Fields{
			"cursor": p.cursor,
			"wait":   wait.String(),
		}).Debug("Waiting for next cycle")
		if err := p.sleep(ctx, wait); err != nil {
			break
		}
	}

	p.logger.WithField("cursor", p.cursor).Info("Poller stopped")
	return nil
}

// cycle returns the cursor to carry forward when it succeeds.
func (p *Poller) cycle(ctx context.Context, log *logrus.Entry) (int64, error) {
	p.enter(log, StateFetching)
	resp, err := p.source.HomeworkStatuses(ctx, p.cursor)
	if err != nil {
		return p.cursor, fmt.Errorf("fetch homework statuses: %w", err)
	}
	if resp == nil {
		resp = &homework.StatusResponse{} // Treat as "nothing changed"
	}
	next := p.nextCursor(log, resp)

	p.enter(log, StateInterpreting)
	if len(resp.Homeworks) == 0 {
		log.Debug("No homework status changes")
		return next, nil
	}
	if n := len(resp.Homeworks); n > 1 {
		log.WithField("homeworks", n).Info("Several homeworks changed, only the first is reported")
	}

	// The API lists the most recent change first.
	verdict, err := homework.Verdict(resp.Homeworks[0])
	if err != nil {
		return p.cursor, fmt.Errorf("interpret homework status: %w", err)
	}

	p.enter(log, StateNotifying)
	if err := p.notifier.SendMessage(ctx, verdict); err != nil {
		return p.cursor, fmt.Errorf("send verdict: %w", err)
	}
	p.status.notified(verdict)
	log.WithField("verdict", verdict).Info("Verdict sent")

	return next, nil
}

// nextCursor prefers the server clock and never moves the cursor backwards.
func (p *Poller) nextCursor(log *logrus.Entry, resp *homework.StatusResponse) int64 {
	next := resp.CurrentDate
	if next == 0 {
		next = p.now().Unix()
		log.WithField("cursor", next).Warn("Response has no current_date, using local clock")
	}
	if next < p.cursor {
		log.WithFields(logrus.Fields{
			"cursor":       p.cursor,
			"current_date": resp.CurrentDate,
		}).Debug("Server date is behind the cursor, keeping the cursor")
		return p.cursor
	}
	return next
}

// handleFailure reports err once. A failure to report is logged and dropped.
func (p *Poller) handleFailure(ctx context.Context, log *logrus.Entry, err error) {
	p.enter(log, StateRecovering)
	p.status.failed(err, p.now())

	log.WithError(err).WithFields(logrus.Fields{
		"kind":   errorKind(err),
		"cursor": p.cursor,
	}).Error("Cycle failed")

	if sendErr := p.notifier.SendMessage(ctx, fmt.Sprintf(failureMessageFormat, err)); sendErr != nil {
		log.WithError(sendErr).Warn("Could not report the failure to the chat")
	}
}

func (p *Poller) enter(log *logrus.Entry, state State) {
	p.status.enter(state)
	log.WithField("state", state).Debug("State transition")
}

func errorKind(err error) string {
	var (
		missing  *homework.MissingFieldError
		notFound *homework.StatusNotFoundError
		fetch    *practicum.FetchError
		delivery *domainTelegram.DeliveryError
	)
	switch {
	case errors.As(err, &missing):
		return "missing_field"
	case errors.As(err, &notFound):
		return "status_not_found"
	case errors.As(err, &fetch):
		return "fetch"
	case errors.As(err, &delivery):
		return "delivery"
	default:
		return "unknown"
	}
}
