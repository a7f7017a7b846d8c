package callback

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/Iron-Ham/planboard/internal/logging"
)

// Queue runs tasks after the current call stack has unwound.
//
// Pointer handlers Defer host notifications instead of calling them; the
// host event loop calls Drain once the handler has returned. Tasks deferred
// while a drain is in progress run in the same drain, after the tasks that
// were already queued.
type Queue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
	logger   *logging.Logger
}

// NewQueue creates an empty queue. A nil logger discards panic reports.
func NewQueue(logger *logging.Logger) *Queue {
	return &Queue{logger: logging.OrNop(logger).WithComponent("callback-queue")}
}

// Defer schedules fn. Nil functions are ignored.
func (q *Queue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs queued tasks in FIFO order until the queue is empty and
// returns how many ran. A panicking task is logged and skipped. A nested
// call to Drain from inside a task returns 0 immediately; the outer drain
// picks up anything the task deferred.
func (q *Queue) Drain() int {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return 0
	}
	q.draining = true
	q.mu.Unlock()

	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.draining = false
			q.mu.Unlock()
			return ran
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.run(fn)
		ran++
	}
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("deferred callback panicked",
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
