package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/notifications"
	"lessonforge/internal/queue"
	"lessonforge/internal/staging"
	"lessonforge/internal/workflow"
)

// stagingRetention bounds how long completed or abandoned order workspaces
// linger in the staging directory before startup cleanup reclaims them.
const stagingRetention = 7 * 24 * time.Hour

// Daemon coordinates background processing and enforces single-instance
// execution through a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	logPath  string

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Workflow     workflow.StatusSummary
	QueueDBPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, logger, and workflow manager")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "lessonforged.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		workflow: wf,
		logPath:  filepath.Join(cfg.Paths.LogDir, "lessonforge.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start launches the workflow manager and acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lessonforge daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.workflow.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start workflow: %w", err)
	}

	d.running.Store(true)
	d.cleanStaging(d.ctx)
	d.logger.Info("lessonforge daemon started", logging.String("lock", d.lockPath))
	return nil
}

// cleanStaging reclaims order workspaces that aged out or whose order no
// longer exists. Cleanup failures are logged, never fatal.
func (d *Daemon) cleanStaging(ctx context.Context) {
	stale := staging.CleanStale(d.cfg.Paths.StagingDir, stagingRetention, d.logger)

	orders, err := d.store.List(ctx)
	if err != nil {
		d.logger.Warn("staging orphan scan skipped", logging.Error(err))
		return
	}
	active := make(map[string]struct{}, len(orders))
	for _, order := range orders {
		active[staging.OrderDirName(order.ID)] = struct{}{}
	}
	orphaned := staging.CleanOrphaned(d.cfg.Paths.StagingDir, active, d.logger)

	if removed := len(stale.Removed) + len(orphaned.Removed); removed > 0 {
		d.logger.Info("staging cleanup finished", logging.Int("removed", removed))
	}
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.workflow.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("lessonforge daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// EnqueueIntake creates a lesson order for a finalized intake record.
func (d *Daemon) EnqueueIntake(ctx context.Context, sessionID string, record intake.Intake) (*queue.Order, error) {
	if d.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	intakeJSON, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode intake: %w", err)
	}
	order, err := d.store.NewOrder(ctx, sessionID, record.ChildName, "", string(intakeJSON))
	if err != nil {
		return nil, fmt.Errorf("enqueue lesson order: %w", err)
	}
	d.logger.Info("lesson order queued",
		logging.Int64(logging.FieldOrderID, order.ID),
		logging.String("child", record.ChildName),
		logging.String("topic", record.Topic))

	if d.cfg.Notifications.Queue {
		notifier := notifications.NewService(d.cfg)
		if err := notifier.NotifyLessonQueued(ctx, record.ChildName, record.Topic); err != nil {
			d.logger.Warn("queued notification failed", logging.Error(err))
		}
	}
	return order, nil
}

// ListQueue returns lesson orders filtered by optional statuses.
func (d *Daemon) ListQueue(ctx context.Context, statuses []queue.Status) ([]*queue.Order, error) {
	if d.store == nil {
		return nil, errors.New("queue store unavailable")
	}
	if len(statuses) == 0 {
		return d.store.List(ctx)
	}
	return d.store.List(ctx, statuses...)
}

// ClearQueue removes all lesson orders.
func (d *Daemon) ClearQueue(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.Clear(ctx)
}

// ClearCompleted removes only completed orders.
func (d *Daemon) ClearCompleted(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ClearCompleted(ctx)
}

// ClearFailed removes only failed orders.
func (d *Daemon) ClearFailed(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ClearFailed(ctx)
}

// ResetStuck rolls in-flight orders back to their stage-start status.
func (d *Daemon) ResetStuck(ctx context.Context) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.ResetStuckProcessing(ctx)
}

// RetryFailed resets failed orders (optionally a subset) back to pending.
func (d *Daemon) RetryFailed(ctx context.Context, ids []int64) (int64, error) {
	if d.store == nil {
		return 0, errors.New("queue store unavailable")
	}
	return d.store.RetryFailed(ctx, ids...)
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	if d.store == nil {
		return queue.HealthSummary{}, errors.New("queue store unavailable")
	}
	return d.store.Health(ctx)
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (queue.DatabaseHealth, error) {
	if d.store == nil {
		return queue.DatabaseHealth{}, errors.New("queue store unavailable")
	}
	return d.store.CheckHealth(ctx)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.cfg == nil {
		return false, "configuration unavailable", errors.New("configuration unavailable")
	}
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	summary := d.workflow.Status(ctx)
	return Status{
		Running:      d.running.Load(),
		Workflow:     summary,
		QueueDBPath:  filepath.Join(d.cfg.Paths.LogDir, "queue.db"),
		LockFilePath: d.lockPath,
	}
}
