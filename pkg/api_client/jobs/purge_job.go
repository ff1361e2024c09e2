package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Purger removes expired entries and reports how many were dropped
type Purger interface {
	DeleteExpired() int
}

// PurgerFunc adapts a function to Purger
type PurgerFunc func() int

func (f PurgerFunc) DeleteExpired() int { return f() }

// SchedulePurge runs every purger on spec until ctx is cancelled. Expired entries are
// only dropped, never refetched.
func SchedulePurge(ctx context.Context, spec string, log logrus.FieldLogger, purgers map[string]Purger) (*cron.Cron, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "purge")
	cronLog := cron.PrintfLogger(log)

	c := cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))

	_, err := c.AddFunc(spec, func() {
		for name, p := range purgers {
			if n := p.DeleteExpired(); n > 0 {
				log.WithFields(logrus.Fields{"target": name, "removed": n}).Debug("purged expired entries")
			}
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c, nil
}
