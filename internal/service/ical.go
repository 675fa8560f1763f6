package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/EpicMandM/dewi-reservations/internal/models"
)

const icalTimestampLayout = "20060102T150405Z"

// ICalOptions holds the presentation settings of the calendar feed.
type ICalOptions struct {
	ProductID        string
	AlarmBefore      time.Duration
	AlarmDescription string
}

// RenderICal builds a calendar with one event and one display alarm per
// reservation. Timestamps are written in UTC form and lines end in CRLF.
func RenderICal(reservations []models.Reservation, opts ICalOptions) string {
	cal := ics.NewCalendar()
	cal.SetVersion("2.0")
	cal.SetProductId(opts.ProductID)

	tz := cal.AddTimezone("UTC")
	std := tz.AddStandard()
	std.AddProperty(ics.ComponentPropertyDtStart, "19700329T020000")
	std.AddProperty(ics.ComponentProperty("TZOFFSETFROM"), "+0000")
	std.AddProperty(ics.ComponentProperty("TZOFFSETTO"), "+0000")

	trigger := FormatTrigger(opts.AlarmBefore)
	for _, r := range reservations {
		event := cal.AddEvent(strconv.FormatUint(uint64(r.ID), 10))
		event.SetProperty(ics.ComponentPropertyDtstamp, FormatTimestamp(r.Start))
		event.SetProperty(ics.ComponentPropertyDtStart, FormatTimestamp(r.Start))
		event.SetProperty(ics.ComponentPropertyDtEnd, FormatTimestamp(r.End))
		event.SetSummary(r.Name)

		alarm := event.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(trigger)
		alarm.SetProperty(ics.ComponentPropertyDescription, opts.AlarmDescription)
	}

	return cal.Serialize(ics.WithNewLineWindows)
}

// FormatTimestamp renders t as an iCalendar UTC date-time.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(icalTimestampLayout)
}

// FormatTrigger renders a negative RFC 5545 duration d before the start,
// e.g. -PT1H or -PT1H30M. Sub-second parts are dropped.
func FormatTrigger(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	d = d.Truncate(time.Second)

	var b strings.Builder
	b.WriteString("-P")
	if days := d / (24 * time.Hour); days > 0 {
		fmt.Fprintf(&b, "%dD", int64(days))
		d -= days * 24 * time.Hour
	}
	if d == 0 {
		if b.Len() == 2 {
			b.WriteString("T0S")
		}
		return b.String()
	}

	b.WriteString("T")
	if h := d / time.Hour; h > 0 {
		fmt.Fprintf(&b, "%dH", int64(h))
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		fmt.Fprintf(&b, "%dM", int64(m))
		d -= m * time.Minute
	}
	if s := d / time.Second; s > 0 {
		fmt.Fprintf(&b, "%dS", int64(s))
	}
	return b.String()
}
