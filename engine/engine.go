// Package engine 实现分片执行订单的生命周期控制与到期触发。
// 每个执行键至多一个订单,同键操作经 store 串行化;
// 引擎自身无状态,全部可变账目都在 store 里。
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"twap-engine-go/custody"
	"twap-engine-go/infrastructure/logger"
	"twap-engine-go/internal/store"
	"twap-engine-go/metrics"
	"twap-engine-go/order"
	"twap-engine-go/venue"
)

// ParamSource 管理面参数的只读视图。
type ParamSource interface {
	MaxAllowedDuration() time.Duration
}

// Config 引擎依赖。
type Config struct {
	// Self 引擎自身身份,触发回调携带该身份时直接忽略(递归保护)。
	Self   string
	Venue  venue.Adapter
	Ledger custody.Ledger
	Store  *store.Store
	Params ParamSource
	Clock  Clock
	Logger *logger.Logger
}

// Engine 生命周期控制器与执行触发器的宿主。
type Engine struct {
	self   string
	venue  venue.Adapter
	ledger custody.Ledger
	store  *store.Store
	params ParamSource
	clock  Clock
	log    *logger.Logger
}

func New(cfg Config) (*Engine, error) {
	if cfg.Self == "" {
		return nil, errors.New("engine identity is required")
	}
	if cfg.Venue == nil || cfg.Ledger == nil || cfg.Store == nil || cfg.Params == nil {
		return nil, errors.New("venue, ledger, store and params are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Engine{
		self:   cfg.Self,
		venue:  cfg.Venue,
		ledger: cfg.Ledger,
		store:  cfg.Store,
		params: cfg.Params,
		clock:  cfg.Clock,
		log:    cfg.Logger,
	}, nil
}

// Self 引擎在活动流里使用的身份。
func (e *Engine) Self() string { return e.self }

func sellAsset(key string, dir order.Direction) custody.Asset {
	if dir == order.AtoB {
		return custody.Base(key)
	}
	return custody.Quote(key)
}

func buyAsset(key string, dir order.Direction) custody.Asset {
	if dir == order.AtoB {
		return custody.Quote(key)
	}
	return custody.Base(key)
}

// catchUp 执行键上全部到期区间,一次补齐。场所兑换失败时整体放弃,
// 不留下任何部分账目。trigger、amend、cancel 走的是同一条路径。
// 返回本次是否有区间被执行。
func (e *Engine) catchUp(ctx context.Context, key string, now time.Time) (bool, error) {
	executed := false
	err := e.store.Update(key, func(o *order.Order) error {
		if !o.Active() || o.Complete() {
			return nil
		}
		due := order.ComputeDue(*o, now)
		if due.AmountDue == 0 {
			return nil
		}
		started := time.Now()
		paid, received, err := e.venue.Swap(ctx, o.Direction, due.AmountDue)
		if err != nil {
			return fmt.Errorf("venue swap: %w", err)
		}
		// 兑换随即在托管侧结算:本金出、所得入
		if err := e.ledger.TransferOut(ctx, sellAsset(key, o.Direction), custody.VenueAccount, paid); err != nil {
			return fmt.Errorf("settle principal: %w", err)
		}
		if err := e.ledger.TransferIn(ctx, buyAsset(key, o.Direction), custody.VenueAccount, received); err != nil {
			return fmt.Errorf("settle proceeds: %w", err)
		}
		o.AmountSold += paid
		o.AmountBought += received
		o.IntervalsExecuted += due.IntervalsPassed
		o.LastExecutionTime = due.NewCheckpoint

		executed = true
		metrics.RecordExecution(key, due.IntervalsPassed, paid, received, time.Since(started))
		e.log.LogExecution(key,
			zap.Uint64("intervals", due.IntervalsPassed),
			zap.Uint64("amount_due", due.AmountDue),
			zap.Uint64("paid", paid),
			zap.Uint64("received", received),
			zap.Time("checkpoint", due.NewCheckpoint),
		)
		return nil
	})
	return executed, err
}
