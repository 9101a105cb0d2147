package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultSchedule расписание очистки по умолчанию
	DefaultSchedule = "@every 5m"

	lockKey = "holds-sweeper"
)

// ErrInvalidSchedule возвращается при некорректном cron-выражении
var ErrInvalidSchedule = errors.New("sweeper: invalid schedule")

// Worker периодически удаляет истекшие удержания
// На корректность бронирования не влияет: истекшие удержания игнорируются при чтении
type Worker struct {
	sweeper HoldSweeper
	locker  Locker
	logger  Logger

	cron    *cron.Cron
	lockTTL time.Duration
	timeout time.Duration
}

// New создает воркер; locker может быть nil (один экземпляр сервиса)
func New(sweeper HoldSweeper, locker Locker, schedule string, logger Logger) (*Worker, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	w := &Worker{
		sweeper: sweeper,
		locker:  locker,
		logger:  logger,
		cron:    cron.New(),
		lockTTL: time.Minute,
		timeout: 30 * time.Second,
	}

	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return w, nil
}

// Run запускает планировщик и блокируется до отмены ctx
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Sweeper: started")
	w.cron.Start()

	<-ctx.Done()

	// Дожидаемся текущего запуска
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()

	w.logger.Info("Sweeper: stopped")
	return nil
}

// RunOnce один проход очистки под распределенной блокировкой
// Недоступный redis пропускает проход
func (w *Worker) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if w.locker != nil {
		acquired, err := w.locker.Lock(ctx, lockKey, w.lockTTL)
		if err != nil {
			w.logger.Warn("Sweeper: lock unavailable, tick skipped: %v", err)
			return
		}
		if !acquired {
			w.logger.Info("Sweeper: another instance is sweeping, tick skipped")
			return
		}
		defer func() {
			if err := w.locker.Unlock(context.Background(), lockKey); err != nil {
				w.logger.Warn("Sweeper: failed to release lock: %v", err)
			}
		}()
	}

	deleted, err := w.sweeper.Sweep(ctx)
	if err != nil {
		w.logger.Error("Sweeper: sweep failed: %v", err)
		return
	}
	if deleted > 0 {
		w.logger.Info("Sweeper: %d expired holds removed", deleted)
	}
}
