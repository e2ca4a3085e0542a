// Package service contains background services that run independently of
// the request path
package service

import (
	"sync"

	"taskman/todo-web/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type auditEntry struct {
	userID uint
	action string
}

// AuditLog appends action records to the logs table from a pool of
// worker goroutines. Writes are fire-and-forget: a full queue or a
// failed insert is logged and dropped, it never fails or delays the
// request that triggered it.
type AuditLog struct {
	db   *gorm.DB
	jobs chan auditEntry
	wg   sync.WaitGroup
}

// NewAuditLog initializes a new audit log queue that limits the
// max amount of entries that can be buffered at once
func NewAuditLog(db *gorm.DB) *AuditLog {
	size := viper.GetInt("audit.queue_size")
	if size <= 0 {
		size = 256
	}

	return &AuditLog{
		db:   db,
		jobs: make(chan auditEntry, size),
	}
}

func (l *AuditLog) StartWorkerPool() {
	workers := viper.GetInt("audit.workers")
	if workers <= 0 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		l.wg.Add(1)
		go l.worker()
	}
}

func (l *AuditLog) worker() {
	defer l.wg.Done()

	for e := range l.jobs {
		err := l.db.Create(&model.LogEntry{UserID: e.userID, Action: e.action}).Error
		if err != nil {
			zap.L().Error("Failed to append audit entry",
				zap.Error(err),
				zap.Uint("userID", e.userID),
				zap.String("action", e.action),
			)
		}
	}
}

// Record enqueues an audit entry without blocking the caller.
func (l *AuditLog) Record(userID uint, action string) {
	select {
	case l.jobs <- auditEntry{userID: userID, action: action}:
	default:
		zap.L().Warn("Audit queue full, dropping entry",
			zap.Uint("userID", userID),
			zap.String("action", action),
		)
	}
}

// Close drains the queue and stops the workers. Record must not be
// called afterwards.
func (l *AuditLog) Close() {
	close(l.jobs)
	l.wg.Wait()
}
