package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/datamover/device"
	"github.com/sarchlab/datamover/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex `json:"-"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

type progressRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

func (b *ProgressBar) snapshot() progressRsp {
	b.Lock()
	defer b.Unlock()

	return progressRsp{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// jobProgressHook moves a progress bar as the accelerator starts and ends
// jobs.
type jobProgressHook struct {
	bar *ProgressBar
}

func (h jobProgressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case device.HookPosJobStart:
		h.bar.IncrementInProgress(1)
	case device.HookPosJobEnd, device.HookPosJobAbort:
		h.bar.MoveInProgressToFinished(1)
	}
}

// TrackJobs creates a progress bar that follows the jobs of an accelerator.
func (m *Monitor) TrackJobs(
	dev sim.Hookable,
	name string,
	total uint64,
) *ProgressBar {
	bar := m.CreateProgressBar(name, total)
	dev.AcceptHook(jobProgressHook{bar: bar})

	return bar
}
