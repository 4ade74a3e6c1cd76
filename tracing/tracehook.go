package tracing

import (
	"fmt"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/device"
	"github.com/sarchlab/datamover/mmio"
	"github.com/sarchlab/datamover/sim"
)

// CollectTrace lets the tracer collect tasks from a domain. The domain can be
// the accelerator, a hooked register window or a controller. Tasks are
// reported at location.
func CollectTrace(domain sim.Hookable, location string, tracer Tracer) {
	domain.AcceptHook(&traceHook{t: tracer, location: location})
}

type traceHook struct {
	t        Tracer
	location string
}

// Func turns hook invocations into tasks.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case device.HookPosJobStart:
		evt := ctx.Item.(device.JobEvent)
		h.t.StartTask(Task{
			ID:       evt.ID,
			Kind:     KindJob,
			What:     fmt.Sprintf("bank%d", evt.Bank),
			Location: h.location,
			Detail:   evt,
		})
	case device.HookPosJobEnd, device.HookPosJobAbort:
		evt := ctx.Item.(device.JobEvent)
		h.t.EndTask(Task{ID: evt.ID, Detail: evt})
	case mmio.HookPosRegLoad:
		h.instant(KindRegLoad, ctx.Item.(mmio.Access))
	case mmio.HookPosRegStore:
		h.instant(KindRegStore, ctx.Item.(mmio.Access))
	case datamover.HookPosAcquire, datamover.HookPosConfigure,
		datamover.HookPosTrigger, datamover.HookPosSoftClear:
		h.handshake(ctx)
	}
}

func (h *traceHook) instant(kind string, access mmio.Access) {
	h.point(Task{
		Kind:   kind,
		What:   datamover.RegisterName(access.Offset),
		Detail: access,
	})
}

func (h *traceHook) handshake(ctx sim.HookCtx) {
	what := ctx.Pos.Name

	switch item := ctx.Item.(type) {
	case datamover.Bank:
		what = fmt.Sprintf("%s bank%d", what, item)
	case datamover.ConfiguredJob:
		what = fmt.Sprintf("%s bank%d", what, item.Bank)
	}

	h.point(Task{
		Kind:   KindHandshake,
		What:   what,
		Detail: ctx.Item,
	})
}

// point reports a task that starts and ends at the same time.
func (h *traceHook) point(task Task) {
	task.ID = sim.GetIDGenerator().Generate()
	task.Location = h.location

	h.t.StartTask(task)
	h.t.EndTask(task)
}
