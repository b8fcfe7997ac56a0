package syncverify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff"

	"flightrec/internal/device"
	"flightrec/internal/failure"
	"flightrec/internal/geo"
	"flightrec/internal/logging"
	"flightrec/internal/progress"
)

// DefaultMaxPasses bounds the upload and verify loop.
const DefaultMaxPasses = 5

// Endpoint is the part of a recorder the verifier needs.
type Endpoint interface {
	UploadWaypoint(ctx context.Context, wp device.Waypoint) (string, error)
	ListWaypoints(ctx context.Context) ([]device.Waypoint, error)
}

// Tolerance bounds how far a device copy may stray from its source.
// Distance is in metres; Elevation is in whole metres.
type Tolerance struct {
	Distance  float64
	Elevation int
}

// Retry configures per-record upload retries after device timeouts.
type Retry struct {
	// Attempts is the total number of upload attempts per record and pass.
	Attempts int
	Initial  time.Duration
}

// Verifier runs the upload, verify and retry loop. The zero value of every
// field except Endpoint is usable.
type Verifier struct {
	Endpoint  Endpoint
	Tolerance Tolerance
	MaxPasses int
	Retry     Retry
	// Progress receives upload progress for each pass.
	Progress progress.Func
	// OnPass is called after each verify phase.
	OnPass func(PassSummary)
	// Warmup overrides progress.DefaultWarmup when non-zero.
	Warmup time.Duration
	Logger *slog.Logger
	Clock  func() time.Time

	est *progress.Estimator
}

type pending struct {
	record   device.Waypoint
	identity string
	err      error
}

// Sync uploads records until every one is confirmed or the loop stops
// making progress. The report is returned even when err is non-nil.
func (v *Verifier) Sync(ctx context.Context, records []device.Waypoint) (Report, error) {
	logger := v.logger()
	report := Report{Total: len(records)}
	if len(records) == 0 {
		return report, nil
	}
	maxPasses := v.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	queue := make([]pending, len(records))
	for i, rec := range records {
		queue[i] = pending{record: rec}
	}

	for pass := 1; ; pass++ {
		logger.Info("sync pass started", logging.Pass(pass), slog.Int("pending", len(queue)))
		if err := v.uploadAll(ctx, pass, queue); err != nil {
			return report, err
		}

		onDevice, err := v.Endpoint.ListWaypoints(ctx)
		if err != nil {
			logger.Warn("sync verify listing failed", logging.Pass(pass), logging.Error(err))
			return report, fmt.Errorf("verify pass %d: %w", pass, err)
		}
		index := make(map[string]device.Waypoint, len(onDevice))
		for _, wp := range onDevice {
			index[wp.ID] = wp
		}

		summary := PassSummary{Pass: pass, Attempted: len(queue)}
		report.Missing, report.Inaccurate = nil, nil
		var next []pending
		for _, item := range queue {
			outcome := v.classify(item, index)
			if outcome.Status != Missing && outcome.Distance > report.MaxObservedError {
				report.MaxObservedError = outcome.Distance
			}
			switch outcome.Status {
			case Confirmed:
				summary.Confirmed++
				report.ConfirmedCount++
				continue
			case Missing:
				summary.Missing++
				report.Missing = append(report.Missing, outcome)
			case Inaccurate:
				summary.Inaccurate++
				report.Inaccurate = append(report.Inaccurate, outcome)
			}
			next = append(next, pending{record: item.record})
		}
		report.Passes = append(report.Passes, summary)
		logger.Info("sync pass verified",
			logging.Pass(pass),
			slog.Int("confirmed", summary.Confirmed),
			slog.Int("missing", summary.Missing),
			slog.Int("inaccurate", summary.Inaccurate),
		)
		if v.OnPass != nil {
			v.OnPass(summary)
		}

		switch {
		case len(next) == 0:
			return report, nil
		case len(next) == len(queue):
			report.Unresolved = true
			return report, failure.Wrap(failure.ErrNoProgress, "sync", fmt.Sprintf("pass %d", pass),
				fmt.Sprintf("%d of %d records still unconfirmed", len(next), report.Total), nil)
		case pass >= maxPasses:
			report.Unresolved = true
			return report, failure.Wrap(failure.ErrNoProgress, "sync", fmt.Sprintf("pass %d", pass),
				fmt.Sprintf("gave up with %d of %d records unconfirmed", len(next), report.Total), nil)
		}
		queue = next
	}
}

func (v *Verifier) uploadAll(ctx context.Context, pass int, queue []pending) error {
	est := v.estimator()
	now := v.now()
	est.Start(now)
	v.emit(est, 0, len(queue), now)
	for i := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}
		id, err := v.upload(ctx, queue[i].record)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			v.logger().Warn("waypoint upload failed",
				logging.Pass(pass),
				logging.Waypoint(queue[i].record.Name),
				logging.Error(err),
			)
		}
		queue[i].identity, queue[i].err = id, err
		v.emit(est, i+1, len(queue), v.now())
	}
	return nil
}

// upload retries timeouts with exponential backoff. Other errors end the
// attempt for this pass.
func (v *Verifier) upload(ctx context.Context, wp device.Waypoint) (string, error) {
	attempts := max(v.Retry.Attempts, 1)
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = v.Retry.Initial
	policy.MaxElapsedTime = 0
	limited := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx)

	var identity string
	var final error
	op := func() error {
		id, err := v.Endpoint.UploadWaypoint(ctx, wp)
		switch {
		case err == nil:
			identity, final = id, nil
			return nil
		case errors.Is(err, failure.ErrTimeout):
			final = err
			return err
		default:
			final = err
			return nil
		}
	}
	notify := func(err error, wait time.Duration) {
		v.logger().Debug("waypoint upload retry",
			logging.Waypoint(wp.Name),
			slog.Duration("wait", wait),
			logging.Error(err),
		)
	}
	if err := backoff.RetryNotify(op, limited, notify); err != nil && final == nil {
		final = err
	}
	return identity, final
}

func (v *Verifier) classify(item pending, index map[string]device.Waypoint) Outcome {
	outcome := Outcome{Record: item.record, Identity: item.identity, UploadErr: item.err}
	got, ok := index[item.identity]
	if item.identity == "" || !ok {
		outcome.Status = Missing
		return outcome
	}
	outcome.Distance = geo.Distance(item.record.Lat, item.record.Lon, got.Lat, got.Lon)
	outcome.ElevationDelta = int(math.Trunc(item.record.Alt)) - int(math.Round(got.Alt))
	if outcome.Distance > v.Tolerance.Distance || abs(outcome.ElevationDelta) > v.Tolerance.Elevation {
		outcome.Status = Inaccurate
		return outcome
	}
	outcome.Status = Confirmed
	return outcome
}

func (v *Verifier) emit(est *progress.Estimator, done, total int, now time.Time) {
	state, changed := est.Observe(int64(done), int64(total), now)
	if changed && v.Progress != nil {
		v.Progress(state)
	}
}

func (v *Verifier) estimator() *progress.Estimator {
	if v.est == nil {
		warmup := v.Warmup
		if warmup == 0 {
			warmup = progress.DefaultWarmup
		}
		v.est = progress.New(progress.WithWarmup(warmup))
	}
	return v.est
}

func (v *Verifier) now() time.Time {
	if v.Clock != nil {
		return v.Clock()
	}
	return time.Now()
}

func (v *Verifier) logger() *slog.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return logging.NewNop()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
