package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zencartio/zencart/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// initJob registers recurring maintenance jobs.
func (a *Application) initJob() {
	a.sched = cron.New()

	// Hourly housekeeping: expired login codes and stale operator logs.
	_, err := a.sched.AddFunc("@every 1h", func() {
		g, _ := errgroup.WithContext(context.Background())
		g.Go(a.purgeExpiredVerificationCodes)
		g.Go(a.purgeOldOprLogs)
		if err := g.Wait(); err != nil {
			zap.S().Errorf("housekeeping job failed: %s", err)
		}
	})
	if err != nil {
		zap.S().Errorf("failed to register housekeeping job: %s", err)
	}

	a.sched.Start()
}

func (a *Application) purgeExpiredVerificationCodes() error {
	result := a.gormDB.
		Where("expires_at < ?", time.Now()).
		Delete(&domain.VerificationCode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		zap.S().Infof("purged %d expired verification codes", result.RowsAffected)
	}
	return nil
}

func (a *Application) purgeOldOprLogs() error {
	days := a.GetSettingsInt64Value("system", "OprLogRetentionDays")
	if days <= 0 {
		days = 90
	}
	cutoff := time.Now().AddDate(0, 0, -int(days))
	result := a.gormDB.
		Where("opt_time < ?", cutoff).
		Delete(&domain.SysOprLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		zap.S().Infof("purged %d operator log rows", result.RowsAffected)
	}
	return nil
}
