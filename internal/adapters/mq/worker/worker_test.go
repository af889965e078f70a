package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/oculo/internal/adapters/mq/queue"
	logging "github.com/okian/oculo/pkg/logger"
)

type recordingRunner struct {
	mu   sync.Mutex
	ids  []string
	fail bool
}

func (r *recordingRunner) RunScreening(ctx context.Context, job queue.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, job.ReportID)
	if r.fail {
		return errors.New("camera unavailable")
	}
	return nil
}

func (r *recordingRunner) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func TestScreeningWorker(t *testing.T) {
	Convey("Given a worker over a job queue", t, func() {
		_ = logging.Init()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue()
		runner := &recordingRunner{}
		w := NewScreeningWorker(q, runner)

		Convey("Jobs are processed in submission order", func() {
			So(q.Enqueue(ctx, queue.Job{ReportID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{ReportID: "b"}), ShouldBeTrue)

			go w.Run(ctx)

			So(waitFor(func() bool { return len(runner.seen()) == 2 }), ShouldBeTrue)
			So(runner.seen(), ShouldResemble, []string{"a", "b"})

			So(w.Shutdown(ctx), ShouldBeNil)
		})

		Convey("A failing job does not stop the loop", func() {
			runner.fail = true
			So(q.Enqueue(ctx, queue.Job{ReportID: "a"}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{ReportID: "b"}), ShouldBeTrue)

			go w.Run(ctx)

			So(waitFor(func() bool { return len(runner.seen()) == 2 }), ShouldBeTrue)
			So(w.Shutdown(ctx), ShouldBeNil)
		})

		Convey("Closing the queue stops the worker", func() {
			go w.Run(ctx)
			So(q.Close(), ShouldBeNil)

			select {
			case <-w.done:
			case <-time.After(time.Second):
				t.Fatal("worker did not stop after queue close")
			}
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
