package order

import "time"

// Due 一次到期结算的计算结果。
type Due struct {
	IntervalsPassed uint64
	AmountDue       uint64
	NewCheckpoint   time.Time
}

// ComputeDue 纯函数:根据当前时间计算自上个检查点以来到期的区间数与应执行量。
// 检查点只按整区间推进,因此同一区间内重复调用返回零应执行量(幂等),
// 且检查点始终满足 (checkpoint - startTime) % interval == 0 的对齐约束。
// 到期区间数与应执行量都会收敛到剩余额度内,已完成或未激活的订单恒为零。
func ComputeDue(o Order, now time.Time) Due {
	due := Due{NewCheckpoint: o.LastExecutionTime}
	if !o.Active() || o.ExecutionInterval <= 0 || o.TotalIntervals == 0 {
		return due
	}
	if now.Before(o.LastExecutionTime) {
		return due
	}

	passed := uint64(now.Sub(o.LastExecutionTime) / o.ExecutionInterval)
	if max := o.TotalIntervals - minUint64(o.IntervalsExecuted, o.TotalIntervals); passed > max {
		passed = max
	}
	if passed == 0 {
		return due
	}

	amount := o.AmountPerInterval() * passed
	if remaining := o.Remaining(); amount > remaining {
		amount = remaining
	}

	due.IntervalsPassed = passed
	due.AmountDue = amount
	due.NewCheckpoint = o.LastExecutionTime.Add(time.Duration(passed) * o.ExecutionInterval)
	return due
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
