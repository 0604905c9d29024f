package workers

import (
	"context"
	"sync"
	"time"

	"firedesk/services"

	"github.com/sirupsen/logrus"
)

// SnapshotWorker periodically persists the in-memory collections to
// the warm-start cache so a restarted console can render before the
// first refetch completes.
type SnapshotWorker struct {
	syncService *services.SyncService
	interval    time.Duration

	isRunning bool
	mutex     sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSnapshotWorker(syncService *services.SyncService, interval time.Duration) *SnapshotWorker {
	ctx, cancel := context.WithCancel(context.Background())
	return &SnapshotWorker{
		syncService: syncService,
		interval:    interval,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (sw *SnapshotWorker) Start() {
	sw.mutex.Lock()
	if sw.isRunning {
		sw.mutex.Unlock()
		return
	}
	sw.isRunning = true
	sw.mutex.Unlock()

	sw.wg.Add(1)
	go sw.run()

	logrus.Infof("Snapshot worker started with interval %s", sw.interval)
}

// Stop halts the worker and writes one final snapshot.
func (sw *SnapshotWorker) Stop() {
	sw.mutex.Lock()
	if !sw.isRunning {
		sw.mutex.Unlock()
		return
	}
	sw.isRunning = false
	sw.mutex.Unlock()

	sw.cancel()
	sw.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sw.syncService.Snapshot(ctx)

	logrus.Info("Snapshot worker stopped")
}

func (sw *SnapshotWorker) IsRunning() bool {
	sw.mutex.RLock()
	defer sw.mutex.RUnlock()
	return sw.isRunning
}

func (sw *SnapshotWorker) run() {
	defer sw.wg.Done()

	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-sw.ctx.Done():
			return
		case <-ticker.C:
			sw.syncService.Snapshot(sw.ctx)
		}
	}
}
