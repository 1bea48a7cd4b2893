package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/infrastructure/resilience"
)

// Queue carries processing tasks over two NATS subjects, one per priority
// lane. Workers queue-subscribe both lanes under one group so each message
// is handled once.
type Queue struct {
	conn          *nats.Conn
	subjectPrefix string
	executor      *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, subjectPrefix string) (*Queue, error) {
	return NewWithOptions(url, subjectPrefix, Options{})
}

func NewWithOptions(url, subjectPrefix string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("doc-insight"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		executor:      options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) subjectFor(class domain.QueueClass) string {
	return fmt.Sprintf("%s.%s", q.subjectPrefix, class)
}

func (q *Queue) Publish(ctx context.Context, msg domain.TaskMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal task message: %w", err)
	}

	subject := q.subjectFor(msg.Queue)
	call := func(_ context.Context) error {
		if err := q.conn.Publish(subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// PublishDelayed republishes after the backoff elapses. The timer lives in
// this process; a shutdown before it fires drops the retry, which only
// delays the terminal failure until the operator resubmits.
func (q *Queue) PublishDelayed(ctx context.Context, msg domain.TaskMessage, delay time.Duration) error {
	if delay <= 0 {
		return q.Publish(ctx, msg)
	}

	time.AfterFunc(delay, func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := q.Publish(publishCtx, msg); err != nil {
			slog.Error("delayed_publish_failed",
				"task_id", msg.TaskID,
				"file_id", msg.FileID,
				"attempt", msg.Attempt,
				"error", err,
			)
		}
	})
	return nil
}

// Subscribe consumes both priority lanes until ctx is canceled.
func (q *Queue) Subscribe(ctx context.Context, handler func(context.Context, domain.TaskMessage) error) error {
	classes := []domain.QueueClass{domain.QueueHighPriority, domain.QueueLowPriority}
	subs := make([]*nats.Subscription, 0, len(classes))

	for _, class := range classes {
		sub, err := q.conn.QueueSubscribe(q.subjectFor(class), "workers", func(msg *nats.Msg) {
			if errors.Is(ctx.Err(), context.Canceled) {
				return
			}

			var task domain.TaskMessage
			if err := json.Unmarshal(msg.Data, &task); err != nil {
				slog.Error("task_message_unreadable", "subject", msg.Subject, "error", err)
				return
			}

			handlerCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			if err := handler(handlerCtx, task); err != nil {
				slog.Error("worker_handler_error",
					"task_id", task.TaskID,
					"file_id", task.FileID,
					"error", err,
				)
			}
		})
		if err != nil {
			return fmt.Errorf("nats subscribe %s: %w", q.subjectFor(class), err)
		}
		subs = append(subs, sub)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	for _, sub := range subs {
		if err := sub.Drain(); err != nil {
			return fmt.Errorf("nats drain subscription: %w", err)
		}
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}
