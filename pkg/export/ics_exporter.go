package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Event describes a single calendar entry for ICS rendering.
// Recurrence carries a raw RRULE value such as "FREQ=WEEKLY;COUNT=16"
// and is omitted from the output when empty.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Recurrence  string
}

// ICSExporter renders calendar events into iCalendar (RFC 5545) bytes.
type ICSExporter struct{}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{}
}

// Render produces an iCalendar document containing the given events.
func (e *ICSExporter) Render(events []Event, calendarName string) ([]byte, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("ics requires at least one event")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//StudyGrid//Scheduler API//EN")
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}

	now := time.Now().UTC()
	for i, event := range events {
		if event.UID == "" {
			return nil, fmt.Errorf("ics event %d missing uid", i)
		}
		if !event.End.After(event.Start) {
			return nil, fmt.Errorf("ics event %q ends before it starts", event.UID)
		}
		entry := cal.AddEvent(event.UID)
		entry.SetCreatedTime(now)
		entry.SetDtStampTime(now)
		entry.SetStartAt(event.Start)
		entry.SetEndAt(event.End)
		entry.SetSummary(event.Summary)
		if event.Description != "" {
			entry.SetDescription(event.Description)
		}
		if event.Location != "" {
			entry.SetLocation(event.Location)
		}
		if event.Recurrence != "" {
			entry.AddRrule(event.Recurrence)
		}
	}

	return []byte(cal.Serialize()), nil
}
