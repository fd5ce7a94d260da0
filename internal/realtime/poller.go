package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"wlmonitor.org/internal/logging"
)

const (
	// MinPollInterval is the advisory floor toward the upstream service.
	// Shorter periods are accepted with a warning.
	MinPollInterval       = 15 * time.Second
	DefaultPollInterval   = 30 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

type Option func(*Poller)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRequestTimeout bounds each monitor request. It does not tie requests
// to the polling lifecycle: stopping never cancels an in-flight request.
func WithRequestTimeout(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.requestTimeout = d
		}
	}
}

// Poller periodically fetches the monitor feed for the watched DIVAs and
// publishes each validated response to its subscribers.
//
// Every tick runs its cycle in a new goroutine, so a slow request can overlap
// the next one and a later cycle may publish before an earlier one. Failed
// cycles are logged and skipped; the timer keeps its period.
type Poller struct {
	fetcher        Fetcher
	logger         *slog.Logger
	requestTimeout time.Duration

	mu          sync.Mutex
	watched     map[int]struct{}
	snapshot    *Response
	seq         uint64 // bumped with every published snapshot
	subscribers observers
	stopCh      chan struct{} // non-nil while polling
	period      time.Duration

	wg sync.WaitGroup
}

func NewPoller(fetcher Fetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:        fetcher,
		logger:         slog.Default(),
		requestTimeout: DefaultRequestTimeout,
		watched:        make(map[int]struct{}),
		subscribers:    newObservers(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(slog.String("component", "realtime_poller"))
	return p
}

// StartPolling starts the timer. The first cycle runs one period after the
// call. Calling it while already polling changes nothing.
func (p *Poller) StartPolling(period time.Duration) {
	p.mu.Lock()
	if p.stopCh != nil {
		current := p.period
		p.mu.Unlock()
		p.logger.Debug("polling already started", slog.Duration("period", current))
		return
	}

	switch {
	case period <= 0:
		logging.LogWarning(p.logger, "non-positive poll period, using default",
			slog.Duration("requested", period),
			slog.Duration("period", DefaultPollInterval))
		period = DefaultPollInterval
	case period < MinPollInterval:
		logging.LogWarning(p.logger, "poll period below recommended minimum",
			slog.Duration("period", period),
			slog.Duration("minimum", MinPollInterval))
	}

	stop := make(chan struct{})
	p.stopCh = stop
	p.period = period
	p.wg.Add(1)
	p.mu.Unlock()

	logging.LogOperation(p.logger, "polling_started", slog.Duration("period", period))
	go p.run(stop, period)
}

// StopPolling stops the timer. A cycle already in flight is neither awaited
// nor cancelled, and its result is still published.
func (p *Poller) StopPolling() {
	p.mu.Lock()
	if p.stopCh == nil {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.stopCh = nil
	p.period = 0
	p.mu.Unlock()

	logging.LogOperation(p.logger, "polling_stopped")
}

// Close stops polling and waits for the timer and every running cycle.
func (p *Poller) Close() {
	p.StopPolling()
	p.wg.Wait()
}

func (p *Poller) IsPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopCh != nil
}

// Watch adds a DIVA to the next request. No fetch is triggered.
func (p *Poller) Watch(diva int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watched[diva] = struct{}{}
}

func (p *Poller) Unwatch(diva int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.watched, diva)
}

// Watched returns the watched DIVAs in ascending order.
func (p *Poller) Watched() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	divas := make([]int, 0, len(p.watched))
	for d := range p.watched {
		divas = append(divas, d)
	}
	sort.Ints(divas)
	return divas
}

// Snapshot returns the latest published response, or nil before the first
// successful cycle.
func (p *Poller) Snapshot() *Response {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Subscribe registers fn for every future snapshot. If a snapshot already
// exists fn receives it before Subscribe returns. The returned function
// unsubscribes and may be called any number of times.
func (p *Poller) Subscribe(fn func(*Response)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	p.mu.Lock()
	id, sub := p.subscribers.add(fn)
	current, seq := p.snapshot, p.seq
	p.mu.Unlock()

	// A publish racing with this call may already have delivered a newer
	// snapshot; notify drops the stale one.
	if current != nil {
		p.notify(sub, current, seq)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.subscribers.remove(id)
	}
}

// SubscriberCount reports how many subscribers are registered.
func (p *Poller) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribers.len()
}

// Poll runs one fetch cycle synchronously and returns its error. On success
// the snapshot is replaced and subscribers are notified before Poll returns.
func (p *Poller) Poll(ctx context.Context) error {
	divas := p.Watched()

	body, err := p.fetcher.Fetch(ctx, divas)
	if err != nil {
		return err
	}

	resp, err := Decode(body)
	if err != nil {
		return err
	}

	p.publish(resp)
	return nil
}

func (p *Poller) run(stop <-chan struct{}, period time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				p.runCycle()
			}()
		case <-stop:
			return
		}
	}
}

func (p *Poller) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), p.requestTimeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, p.logger)

	start := time.Now()
	if err := p.Poll(ctx); err != nil {
		logging.LogError(p.logger, "monitor cycle skipped", err,
			slog.String("error_kind", errorKind(err)),
			slog.Duration("duration", time.Since(start)))
		return
	}

	logging.LogOperation(p.logger, "monitor_cycle_completed",
		slog.Duration("duration", time.Since(start)))
}

func (p *Poller) publish(resp *Response) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.snapshot = resp
	subs := p.subscribers.snapshot()
	p.mu.Unlock()

	for _, sub := range subs {
		p.notify(sub, resp, seq)
	}
}

// notify hands resp to one subscriber unless it already received a snapshot
// published at or after seq. It isolates a panicking subscriber from the
// others. A callback must not run a cycle synchronously on the same poller.
func (p *Poller) notify(sub *subscription, resp *Response, seq uint64) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if seq <= sub.delivered {
		return
	}
	sub.delivered = seq

	defer func() {
		if r := recover(); r != nil {
			logging.LogError(p.logger, "subscriber panicked", fmt.Errorf("%v", r))
		}
	}()
	sub.fn(resp)
}

func errorKind(err error) string {
	var transportErr *TransportError
	var decodeErr *DecodeError
	var schemaErr *SchemaValidationError
	switch {
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &schemaErr):
		return "schema"
	default:
		return "unknown"
	}
}
