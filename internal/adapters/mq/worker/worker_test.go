package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/wodboard/internal/adapters/mq/queue"
	"github.com/okian/wodboard/internal/adapters/mq/worker"
	"github.com/okian/wodboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type recordingApplier struct {
	mu      sync.Mutex
	applied []string
	fail    map[string]bool
}

func (r *recordingApplier) Apply(_ context.Context, s worker.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[s.SubmissionID] {
		return errors.New("boom")
	}
	r.applied = append(r.applied, s.SubmissionID)
	return nil
}

func (r *recordingApplier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

func submission(id string) worker.Submission {
	return worker.Submission{
		SubmissionID:  id,
		CompetitionID: "c1",
		EventID:       "e1",
		AthleteID:     "a-" + id,
		Value:         100,
		Status:        "scored",
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))
		applier := &recordingApplier{fail: map[string]bool{"bad": true}}
		w := worker.NewInMemoryWorker(q, applier, worker.WithName("w"), worker.WithLogger(logger.Nop()))

		convey.Convey("It applies submissions until the queue is closed", func() {
			convey.So(q.Enqueue(ctx, submission("s1")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, submission("s2")), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)

			w.Run(ctx)

			convey.So(applier.count(), convey.ShouldEqual, 2)
			convey.So(w.Processed(), convey.ShouldEqual, 2)
			convey.So(w.Failed(), convey.ShouldEqual, 0)
		})

		convey.Convey("It counts failed submissions and keeps going", func() {
			convey.So(q.Enqueue(ctx, submission("bad")), convey.ShouldBeNil)
			convey.So(q.Enqueue(ctx, submission("good")), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)

			w.Run(ctx)

			convey.So(w.Failed(), convey.ShouldEqual, 1)
			convey.So(w.Processed(), convey.ShouldEqual, 1)
		})

		convey.Convey("Shutdown stops an idle worker", func() {
			go w.Run(ctx)
			sctx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})

		convey.Convey("Cancelling the context stops the worker", func() {
			cctx, cancel := context.WithCancel(ctx)
			stopped := make(chan struct{})
			go func() {
				w.Run(cctx)
				close(stopped)
			}()
			cancel()
			select {
			case <-stopped:
			case <-time.After(time.Second):
				t.Fatal("worker did not stop")
			}
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		applier := &recordingApplier{}
		p := worker.NewPool(4, q, applier, worker.WithPoolLogger(logger.Nop()))

		convey.So(p.Size(), convey.ShouldEqual, 4)

		convey.Convey("Shutdown drains everything already queued", func() {
			for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
				convey.So(q.Enqueue(ctx, submission(id)), convey.ShouldBeNil)
			}
			p.Start(ctx)
			convey.So(p.Shutdown(ctx), convey.ShouldBeNil)

			processed, failed := p.Stats()
			convey.So(processed, convey.ShouldEqual, 8)
			convey.So(failed, convey.ShouldEqual, 0)
			convey.So(applier.count(), convey.ShouldEqual, 8)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
		})
	})

	convey.Convey("A non-positive worker count scales with the CPUs", t, func() {
		p := worker.NewPool(0, queue.NewInMemoryQueue(), &recordingApplier{}, worker.WithPoolLogger(logger.Nop()))
		convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
