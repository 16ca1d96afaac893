package cleanup

import (
	"log/slog"
	"sync"
)

// Job is a named shutdown step, e.g. closing the database pool.
type Job struct {
	Name string
	F    func() error
}

var (
	mu   sync.Mutex
	jobs []*Job
)

func Register(j *Job) {
	mu.Lock()
	defer mu.Unlock()
	jobs = append(jobs, j)
}

// CleanUp runs registered jobs in reverse registration order, so resources
// are released after everything that was built on top of them. Every job runs
// even if an earlier one fails; the number of failed jobs is returned.
func CleanUp() int {
	mu.Lock()
	pending := jobs
	jobs = nil
	mu.Unlock()

	failed := 0
	for i := len(pending) - 1; i >= 0; i-- {
		j := pending[i]
		logger := slog.Default().With(slog.String("job", j.Name))
		logger.Info("cleanup job started")
		if err := j.F(); err != nil {
			failed++
			logger.Error("cleanup job failed", slog.String("error", err.Error()))
			continue
		}
		logger.Info("cleanup job finished")
	}
	return failed
}
