package engine

import (
	"context"

	"twap-engine-go/metrics"
)

// OnActivity 市场活动回调,每个外部活动事件调用一次。
// actor 为本次活动的发起者;当 actor 是引擎自身时立即返回,
// 防止引擎发出的场所兑换再次进入触发器。
// 其余情况走与 amend/cancel 相同的补齐路径:无到期区间是常态,直接无操作。
func (e *Engine) OnActivity(ctx context.Context, actor, key string) error {
	if actor == e.self {
		metrics.RecordTrigger("self")
		return nil
	}
	executed, err := e.catchUp(ctx, key, e.clock.Now())
	switch {
	case err != nil:
		metrics.RecordTrigger("error")
		e.log.LogError(err)
		return err
	case executed:
		metrics.RecordTrigger("executed")
	default:
		metrics.RecordTrigger("noop")
	}
	return nil
}
