package payload

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericlevine/qrstyle"
)

const icalTime = "20060102T150405Z"

// CalendarEvent adds an event to a calendar as an iCalendar VEVENT.
type CalendarEvent struct {
	Summary  string
	Location string
	Start    time.Time
	End      time.Time
}

func (CalendarEvent) Kind() Kind { return KindEvent }

func (e CalendarEvent) encode() (string, error) {
	switch {
	case e.Summary == "":
		return "", missing("summary")
	case e.Start.IsZero():
		return "", missing("start")
	case e.End.IsZero():
		return "", missing("end")
	case e.End.Before(e.Start):
		return "", invalid("end", "%s is before start %s", e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	lines := []string{
		"BEGIN:VEVENT",
		"SUMMARY:" + escapeText(nfc(e.Summary)),
		"LOCATION:" + escapeText(nfc(e.Location)),
		"DTSTART:" + formatICalTime(e.Start),
		"DTEND:" + formatICalTime(e.End),
		"END:VEVENT",
	}
	return strings.Join(lines, "\n"), nil
}

func formatICalTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(icalTime)
}

// ParseVEvent parses a VEVENT fragment. Times must be UTC in basic format.
func ParseVEvent(s string) (CalendarEvent, error) {
	lines := unfold(s)
	if len(lines) < 2 || lines[0] != "BEGIN:VEVENT" || lines[len(lines)-1] != "END:VEVENT" {
		return CalendarEvent{}, fmt.Errorf("%w: not a VEVENT", qrstyle.ErrFormat)
	}
	var e CalendarEvent
	for _, line := range lines[1 : len(lines)-1] {
		head, value, ok := strings.Cut(line, ":")
		if !ok {
			return CalendarEvent{}, fmt.Errorf("%w: VEVENT line %q", qrstyle.ErrFormat, line)
		}
		var err error
		switch propertyName(head) {
		case "SUMMARY":
			e.Summary = unescapeText(value)
		case "LOCATION":
			e.Location = unescapeText(value)
		case "DTSTART":
			e.Start, err = time.Parse(icalTime, value)
		case "DTEND":
			e.End, err = time.Parse(icalTime, value)
		}
		if err != nil {
			return CalendarEvent{}, fmt.Errorf("%w: %s: %v", qrstyle.ErrFormat, head, err)
		}
	}
	if e.Start.IsZero() || e.End.IsZero() {
		return CalendarEvent{}, fmt.Errorf("%w: VEVENT without DTSTART or DTEND", qrstyle.ErrFormat)
	}
	return e, nil
}
