package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"twap-engine-go/metrics"
	"twap-engine-go/order"
)

// InitiateParams 创建订单的参数。
type InitiateParams struct {
	Key               string
	Initiator         string
	TotalAmount       uint64
	Duration          time.Duration
	ExecutionInterval time.Duration
	Direction         order.Direction
}

// Initiate 创建订单:校验时长与区间,向托管请求入金,
// 然后在键上写入激活的订单。键上已有活跃订单时失败。
func (e *Engine) Initiate(ctx context.Context, p InitiateParams) error {
	if p.TotalAmount == 0 {
		return order.ErrInvalidAmount
	}
	if p.ExecutionInterval <= 0 {
		return order.ErrInvalidInterval
	}
	if p.Duration > e.params.MaxAllowedDuration() {
		return order.ErrDurationExceedsMaximum
	}
	if p.Duration <= 0 || p.Duration%p.ExecutionInterval != 0 {
		return order.ErrIntervalDoesNotDivideDuration
	}

	now := e.clock.Now()
	opID := uuid.NewString()
	return e.store.Update(p.Key, func(o *order.Order) error {
		if o.Active() {
			return order.ErrExistingOrderInProgress
		}
		if err := e.ledger.TransferIn(ctx, sellAsset(p.Key, p.Direction), p.Initiator, p.TotalAmount); err != nil {
			return fmt.Errorf("fund order: %w", err)
		}
		*o = order.Order{
			Initiator:         p.Initiator,
			Direction:         p.Direction,
			TotalAmount:       p.TotalAmount,
			StartTime:         now,
			EndTime:           now.Add(p.Duration),
			LastExecutionTime: now,
			ExecutionInterval: p.ExecutionInterval,
			TotalIntervals:    uint64(p.Duration / p.ExecutionInterval),
		}
		metrics.OrdersInitiated.WithLabelValues(p.Key).Inc()
		metrics.ActiveOrders.Inc()
		e.log.LogLifecycle("initiate", p.Key,
			zap.String("op_id", opID),
			zap.String("initiator", p.Initiator),
			zap.Stringer("direction", p.Direction),
			zap.Uint64("total_amount", p.TotalAmount),
			zap.Duration("duration", p.Duration),
			zap.Duration("interval", p.ExecutionInterval),
			zap.Uint64("total_intervals", o.TotalIntervals),
		)
		return nil
	})
}

// Amend 改单。先按旧排程补齐全部到期区间,再按剩余本金结算资金差额,
// 最后以 now 为新起点重建排程。执行区间保持不变。
func (e *Engine) Amend(ctx context.Context, key, caller string, newTotalAmount uint64, newEndTime time.Time) error {
	cur, ok := e.store.Get(key)
	if !ok {
		return order.ErrOrderNotFound
	}
	if cur.Initiator != caller {
		return order.ErrUnauthorizedCaller
	}
	if newTotalAmount == 0 {
		return order.ErrInvalidAmount
	}

	now := e.clock.Now()
	remainingDur := newEndTime.Sub(now)
	if remainingDur <= 0 {
		return order.ErrEndTimeInPast
	}
	if remainingDur > e.params.MaxAllowedDuration() {
		return order.ErrDurationExceedsMaximum
	}
	if remainingDur%cur.ExecutionInterval != 0 {
		return order.ErrIntervalMismatch
	}

	// 旧排程下的欠账先执行,改单不丢已到期的进度
	if _, err := e.catchUp(ctx, key, now); err != nil {
		return err
	}

	opID := uuid.NewString()
	return e.store.Update(key, func(o *order.Order) error {
		if !o.Active() {
			return order.ErrOrderNotFound
		}
		if o.Initiator != caller {
			return order.ErrUnauthorizedCaller
		}

		remaining := o.Remaining()
		asset := sellAsset(key, o.Direction)
		switch {
		case newTotalAmount > remaining:
			if err := e.ledger.TransferIn(ctx, asset, caller, newTotalAmount-remaining); err != nil {
				return fmt.Errorf("fund amend: %w", err)
			}
		case newTotalAmount < remaining:
			if err := e.ledger.TransferOut(ctx, asset, caller, remaining-newTotalAmount); err != nil {
				return fmt.Errorf("refund amend: %w", err)
			}
		}

		o.TotalAmount = newTotalAmount
		o.AmountSold = 0
		o.StartTime = now // 排程重建,保持检查点对齐约束
		o.EndTime = newEndTime
		o.LastExecutionTime = now
		o.IntervalsExecuted = 0
		o.TotalIntervals = uint64(remainingDur / o.ExecutionInterval)

		metrics.OrdersAmended.WithLabelValues(key).Inc()
		e.log.LogLifecycle("amend", key,
			zap.String("op_id", opID),
			zap.Uint64("new_total", newTotalAmount),
			zap.Uint64("previous_remaining", remaining),
			zap.Time("new_end", newEndTime),
			zap.Uint64("total_intervals", o.TotalIntervals),
		)
		return nil
	})
}

// Cancel 撤单。先补齐到期区间,再退回未执行本金、转出未提取所得,
// 最后把键重置为空。
func (e *Engine) Cancel(ctx context.Context, key, caller string) error {
	cur, ok := e.store.Get(key)
	if !ok {
		return order.ErrOrderNotFound
	}
	if cur.Initiator != caller {
		return order.ErrUnauthorizedCaller
	}

	now := e.clock.Now()
	if _, err := e.catchUp(ctx, key, now); err != nil {
		return err
	}

	opID := uuid.NewString()
	return e.store.Update(key, func(o *order.Order) error {
		if !o.Active() {
			return order.ErrOrderNotFound
		}
		if o.Initiator != caller {
			return order.ErrUnauthorizedCaller
		}

		refund := o.Remaining()
		proceeds := o.Unclaimed()
		if refund > 0 {
			if err := e.ledger.TransferOut(ctx, sellAsset(key, o.Direction), caller, refund); err != nil {
				return fmt.Errorf("refund principal: %w", err)
			}
		}
		if proceeds > 0 {
			if err := e.ledger.TransferOut(ctx, buyAsset(key, o.Direction), caller, proceeds); err != nil {
				return fmt.Errorf("payout proceeds: %w", err)
			}
		}

		*o = order.Order{}
		metrics.OrdersCancelled.WithLabelValues(key).Inc()
		metrics.ActiveOrders.Dec()
		e.log.LogLifecycle("cancel", key,
			zap.String("op_id", opID),
			zap.Uint64("refund", refund),
			zap.Uint64("proceeds", proceeds),
		)
		return nil
	})
}

// Claim 提取已累积的兑换所得,订单本身不终止,可随执行进度多次提取。
// 本金全部执行且所得全部提取后,键被释放为空。
func (e *Engine) Claim(ctx context.Context, key, caller string) error {
	opID := uuid.NewString()
	return e.store.Update(key, func(o *order.Order) error {
		if !o.Active() {
			return order.ErrOrderNotFound
		}
		if o.Initiator != caller {
			return order.ErrUnauthorizedCaller
		}
		unclaimed := o.Unclaimed()
		if unclaimed == 0 {
			return order.ErrNoProceedsToClaim
		}
		if err := e.ledger.TransferOut(ctx, buyAsset(key, o.Direction), caller, unclaimed); err != nil {
			return fmt.Errorf("payout claim: %w", err)
		}
		o.AmountClaimed = o.AmountBought

		released := false
		if o.Remaining() == 0 {
			*o = order.Order{}
			released = true
			metrics.ActiveOrders.Dec()
		}
		metrics.Claims.WithLabelValues(key).Inc()
		e.log.LogLifecycle("claim", key,
			zap.String("op_id", opID),
			zap.Uint64("amount", unclaimed),
			zap.Bool("released", released),
		)
		return nil
	})
}
