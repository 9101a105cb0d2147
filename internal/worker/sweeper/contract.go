package sweeper

import (
	"context"
	"time"
)

// HoldSweeper удаляет истекшие удержания
type HoldSweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Locker распределенная блокировка (pkg/lock)
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
