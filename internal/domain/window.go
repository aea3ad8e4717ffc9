package domain

import (
	"fmt"
	"time"
)

const (
	windowLayout   = "2006-01-02 15:04:05"
	filenameLayout = "2006-01-02_15_04_05"
)

// TimeWindow bounds a recording search. Start and End share one frame of
// reference (local or UTC); Offset is the local-time offset from UTC and is
// carried along so tracks can be rendered back in local time.
type TimeWindow struct {
	Start  time.Time
	End    time.Time
	Offset time.Duration
}

// ParseWindow builds a local-time window from "YYYY-MM-DD HH:MM:SS" strings.
func ParseWindow(startText, endText string, offset time.Duration) (TimeWindow, error) {
	start, err := time.Parse(windowLayout, startText)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse start time %q: %w", startText, err)
	}

	end, err := time.Parse(windowLayout, endText)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("parse end time %q: %w", endText, err)
	}

	if end.Before(start) {
		return TimeWindow{}, fmt.Errorf("window end %q precedes start %q", endText, startText)
	}

	return TimeWindow{Start: start, End: end, Offset: offset}, nil
}

// ToUTC shifts a local-time window into UTC.
func (w TimeWindow) ToUTC() TimeWindow {
	return TimeWindow{
		Start:  w.Start.Add(-w.Offset),
		End:    w.End.Add(-w.Offset),
		Offset: w.Offset,
	}
}

// ToLocal shifts a UTC window back into local time.
func (w TimeWindow) ToLocal() TimeWindow {
	return TimeWindow{
		Start:  w.Start.Add(w.Offset),
		End:    w.End.Add(w.Offset),
		Offset: w.Offset,
	}
}

// FilenameText renders the window start as a filename-friendly timestamp.
func (w TimeWindow) FilenameText() string {
	return w.Start.Format(filenameLayout)
}
