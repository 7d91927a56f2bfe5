package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.InstructionExecutor = (*UseCase)(nil)

const DefaultWaitTimeout = 2 * time.Second

// UseCase runs an instruction queue as a single left-to-right sweep.
// Every instruction is dispatched at most once per Execute call; the ones
// that did not succeed are returned in order as the remaining queue.
type UseCase struct {
	actions output.ActionPort
	logger  output.LoggerPort
	metrics output.MetricsPort
	timeout time.Duration
}

func New(
	actions output.ActionPort,
	logger output.LoggerPort,
	metrics output.MetricsPort,
	timeout time.Duration,
) *UseCase {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if metrics == nil {
		metrics = output.NopMetrics{}
	}
	return &UseCase{
		actions: actions,
		logger:  logger.Named("executor"),
		metrics: metrics,
		timeout: timeout,
	}
}

func (uc *UseCase) Execute(ctx context.Context, queue entity.Queue) (*output.ExecuteReport, error) {
	report := &output.ExecuteReport{Remaining: make(entity.Queue, 0, len(queue))}

	for i, ins := range queue {
		if err := ctx.Err(); err != nil {
			report.Remaining = append(report.Remaining, queue[i:]...)
			return report, err
		}

		report.Attempted++
		ok, err := uc.dispatch(ctx, ins)
		if err != nil {
			uc.metrics.InstructionAttempted(kindOf(ins), output.OutcomeFatal)
			uc.logger.Error("Instruction aborted the sweep", "index", i, "instruction", describe(ins), "error", err)
			report.Remaining = append(report.Remaining, queue[i:]...)
			return report, fmt.Errorf("instruction %d (%s): %w", i, describe(ins), err)
		}

		if ok {
			report.Succeeded++
			uc.metrics.InstructionAttempted(kindOf(ins), output.OutcomeSucceeded)
			uc.logger.Debug("Instruction succeeded", "index", i, "instruction", describe(ins))
			continue
		}

		uc.metrics.InstructionAttempted(kindOf(ins), output.OutcomeSkipped)
		uc.logger.Debug("Instruction not satisfied, keeping it", "index", i, "instruction", describe(ins))
		report.Remaining = append(report.Remaining, ins)
	}

	uc.logger.Info("Sweep finished",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"remaining", len(report.Remaining),
	)
	return report, nil
}

func (uc *UseCase) dispatch(ctx context.Context, ins entity.Instruction) (bool, error) {
	switch in := ins.(type) {
	case entity.Fill:
		return uc.fill(ctx, in)
	case entity.Click:
		return uc.click(ctx, in)
	case entity.DropdownFill:
		return uc.dropdownFill(ctx, in)
	case entity.Upload:
		return uc.upload(ctx, in)
	case entity.DragDrop:
		return uc.dragDrop(ctx, in)
	default:
		return false, fmt.Errorf("%w: %T", entity.ErrUnknownAction, ins)
	}
}

func (uc *UseCase) fill(ctx context.Context, in entity.Fill) (bool, error) {
	opts := in.Options()
	if in.Value() == "" {
		return false, nil
	}

	el, found, err := uc.locate(ctx, in.Target(), opts)
	if err != nil || !found {
		return false, err
	}

	if opts.OnlyIfEmpty {
		empty, err := uc.actions.IsEmpty(ctx, el)
		if err != nil {
			return false, uc.actionFailed(in.Target(), opts, err)
		}
		if !empty {
			return false, nil
		}
	}

	if err := uc.actions.SetValue(ctx, el, in.Value()); err != nil {
		return false, uc.actionFailed(in.Target(), opts, err)
	}
	if opts.PressEnter {
		if err := uc.actions.PressEnter(ctx, el); err != nil {
			return false, uc.actionFailed(in.Target(), opts, err)
		}
	}
	return true, nil
}

func (uc *UseCase) click(ctx context.Context, in entity.Click) (bool, error) {
	opts := in.Options()
	el, found, err := uc.locate(ctx, in.Target(), opts)
	if err != nil || !found {
		return false, err
	}
	if err := uc.actions.Click(ctx, el); err != nil {
		return false, uc.actionFailed(in.Target(), opts, err)
	}
	return true, nil
}

func (uc *UseCase) dropdownFill(ctx context.Context, in entity.DropdownFill) (bool, error) {
	opts := in.Options()
	if in.Value() == "" {
		return false, nil
	}

	el, found, err := uc.locate(ctx, in.Target(), opts)
	if err != nil || !found {
		return false, err
	}

	selected, err := uc.actions.SelectFromOpenList(ctx, el, in.Value(), opts.ValueIsPattern)
	if err != nil {
		return false, uc.actionFailed(in.Target(), opts, err)
	}
	if !selected && opts.Required {
		return false, uc.hardMiss(in.Target(), fmt.Errorf("%w: option %q", entity.ErrElementNotFound, in.Value()))
	}
	return selected, nil
}

func (uc *UseCase) upload(ctx context.Context, in entity.Upload) (bool, error) {
	opts := in.Options()
	if in.Path() == "" {
		return false, nil
	}

	el, found, err := uc.locate(ctx, in.Target(), opts)
	if err != nil || !found {
		return false, err
	}
	if err := uc.actions.Upload(ctx, el, in.Path()); err != nil {
		return false, uc.actionFailed(in.Target(), opts, err)
	}
	return true, nil
}

func (uc *UseCase) dragDrop(ctx context.Context, in entity.DragDrop) (bool, error) {
	opts := in.Options()
	src, found, err := uc.locate(ctx, in.Source(), opts)
	if err != nil || !found {
		return false, err
	}
	dst, found, err := uc.locate(ctx, in.Target(), opts)
	if err != nil || !found {
		return false, err
	}
	if err := uc.actions.DragAndDrop(ctx, src, dst); err != nil {
		return false, uc.actionFailed(in.Target(), opts, err)
	}
	return true, nil
}

// locate reports found=false with a nil error for a soft miss. A miss on a
// required target is returned as a HardMissError.
func (uc *UseCase) locate(ctx context.Context, loc entity.Locator, opts entity.Options) (output.Element, bool, error) {
	el, err := uc.actions.Locate(ctx, loc, output.LocateOptions{
		Required: opts.Required,
		Timeout:  uc.timeout,
	})
	if err == nil {
		return el, true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, false, ctxErr
	}
	if opts.Required {
		return nil, false, uc.hardMiss(loc, err)
	}
	if !errors.Is(err, entity.ErrElementNotFound) {
		uc.logger.Warn("Locate failed", "locator", loc.String(), "error", err)
	}
	return nil, false, nil
}

// actionFailed maps an adapter failure after a successful locate. Required
// instructions abort the sweep; everything else is retried on a later call.
func (uc *UseCase) actionFailed(loc entity.Locator, opts entity.Options, err error) error {
	if opts.Required {
		return uc.hardMiss(loc, err)
	}
	uc.logger.Warn("Action failed", "locator", loc.String(), "error", err)
	return nil
}

func (uc *UseCase) hardMiss(loc entity.Locator, err error) error {
	return &entity.HardMissError{Locator: loc, URL: uc.actions.CurrentURL(), Err: err}
}

func kindOf(ins entity.Instruction) entity.ActionKind {
	if ins == nil {
		return "UNKNOWN"
	}
	return ins.Kind()
}

func describe(ins entity.Instruction) string {
	if ins == nil {
		return "<nil>"
	}
	return ins.String()
}
