package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/hopeconnect/pkg/core/model"
)

// NextSessions returns a copy of opportunities with NextSession set to the first
// scheduled occurrence strictly after now. Opportunities without a schedule are
// returned unchanged.
func NextSessions(opportunities []model.Opportunity, now time.Time) ([]model.Opportunity, error) {
	result := make([]model.Opportunity, len(opportunities))
	start := now.Truncate(time.Second)

	for i, opp := range opportunities {
		result[i] = opp
		result[i].NextSession = nil
		if opp.Schedule == "" {
			continue
		}

		opt, err := rrule.StrToROption(opp.Schedule)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule for %q: %w", opp.Title, err)
		}
		opt.Dtstart = start

		rule, err := rrule.NewRRule(*opt)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule for %q: %w", opp.Title, err)
		}

		next := rule.After(now, false)
		if !next.IsZero() {
			result[i].NextSession = &next
		}
	}

	return result, nil
}
