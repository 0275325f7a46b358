package biz

import (
	"context"
	"sync"
	"time"

	"mediareview/internal/conf"
	"mediareview/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

type notifyTask struct {
	mediaID int64
	summary string
}

// Notifier fans a review summary out to the subscribers of a media item.
// Tasks run on a fixed pool of workers; failures are logged and never
// reach the submitter.
type Notifier struct {
	subs    SubscriptionRepo
	sink    NotificationSink
	timeout time.Duration
	log     *log.Helper

	mu     sync.RWMutex
	closed bool
	tasks  chan notifyTask
	wg     sync.WaitGroup
}

// NewNotifier starts c.Workers workers. The returned cleanup stops intake and
// drains queued tasks.
func NewNotifier(c *conf.Notify, subs SubscriptionRepo, sink NotificationSink, logger log.Logger) (*Notifier, func()) {
	n := &Notifier{
		subs:    subs,
		sink:    sink,
		timeout: c.Timeout.AsDuration(),
		log:     log.NewHelper(log.With(logger, "module", "biz/notify")),
		tasks:   make(chan notifyTask, c.QueueSize),
	}
	if n.timeout <= 0 {
		n.timeout = 5 * time.Second
	}

	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	n.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go n.worker()
	}
	return n, n.Close
}

// Dispatch schedules notification of media's subscribers and returns immediately.
// It reports whether the task was queued.
func (n *Notifier) Dispatch(mediaID int64, summary string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		metrics.RecordNotification("dropped")
		n.log.Warnf("notifier closed, dropping notification for media %d", mediaID)
		return false
	}
	select {
	case n.tasks <- notifyTask{mediaID: mediaID, summary: summary}:
		return true
	default:
		metrics.RecordNotification("dropped")
		n.log.Warnf("notification queue full, dropping notification for media %d", mediaID)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish. Safe to call twice.
func (n *Notifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.tasks)
	}
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for task := range n.tasks {
		n.notify(task)
	}
}

func (n *Notifier) notify(task notifyTask) {
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordNotification("failed")
			n.log.Errorf("notification error for media %d: panic: %v", task.mediaID, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	subscribers, err := n.subs.ListSubscribers(ctx, task.mediaID)
	if err != nil {
		metrics.RecordNotification("failed")
		n.log.Errorf("notification error for media %d: %v", task.mediaID, err)
		return
	}

	for _, name := range subscribers {
		err := n.sink.Notify(ctx, &Notification{
			Subscriber: name,
			MediaID:    task.mediaID,
			Summary:    task.summary,
		})
		if err != nil {
			metrics.RecordNotification("failed")
			n.log.Errorf("notify '%s' about media %d: %v", name, task.mediaID, err)
			continue
		}
		metrics.RecordNotification("sent")
	}
}
