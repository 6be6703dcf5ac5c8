package auth

import (
	"log"

	"github.com/robfig/cron/v3"
)

// StartSweeper runs SweepSessions on the given cron schedule
// (e.g. "*/15 * * * *"). The returned cron must be stopped on shutdown.
func (s *Service) StartSweeper(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if removed := s.SweepSessions(); removed > 0 {
			log.Printf("Session sweep removed %d expired session(s)", removed)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
