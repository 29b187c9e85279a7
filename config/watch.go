package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听配置文件变更并回调最新配置,带冷却窗口避免编辑器
// 连续写入触发的重复重载。校验不通过的新配置会被丢弃。
type Watcher struct {
	Path     string
	Cooldown time.Duration
}

// Start 启动监听,阻塞到 ctx 取消。
func (w Watcher) Start(ctx context.Context, onUpdate func(AppConfig)) error {
	if w.Cooldown <= 0 {
		w.Cooldown = 2 * time.Second
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(w.Path); err != nil {
		return fmt.Errorf("watch config file: %w", err)
	}

	var lastReload time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if time.Since(lastReload) < w.Cooldown {
				continue
			}
			if cfg, ok := w.reload(); ok {
				lastReload = time.Now()
				if onUpdate != nil {
					onUpdate(cfg)
				}
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// reload 读取并校验当前文件,失败时返回 false。
func (w Watcher) reload() (AppConfig, bool) {
	cfg, err := LoadWithEnvOverrides(w.Path)
	if err != nil {
		return AppConfig{}, false
	}
	return cfg, true
}
