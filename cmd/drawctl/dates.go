package main

import (
	"fmt"
	"strings"
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// dateParser turns "2026-03-03", "tomorrow" or "next tuesday" into an
// event date relative to now.
type dateParser struct {
	w   *when.Parser
	now func() time.Time
}

func newDateParser(now func() time.Time) *dateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &dateParser{w: w, now: now}
}

func (p *dateParser) Parse(input string) (sharedtypes.EventDate, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return "", fmt.Errorf("event date is required")
	}
	if d, err := sharedtypes.ParseEventDate(input); err == nil {
		return d, nil
	}

	now := p.now()
	r, err := p.w.Parse(input, now)
	if err != nil {
		return "", fmt.Errorf("could not parse date %q: %w", input, err)
	}
	if r == nil {
		return "", fmt.Errorf("could not recognize date %q", input)
	}
	return sharedtypes.EventDateFromTime(r.Time.In(now.Location())), nil
}
