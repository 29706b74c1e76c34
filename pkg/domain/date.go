package domain

import (
	"strings"
	"time"
)

// sources often spell the weekday out, which RFC 822 does not allow
var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// obsolete RFC 822 zone names, go can't resolve most of them without a local tz database entry
var zoneOffsets = map[string]string{
	"UT": "+0000", "GMT": "+0000", "Z": "+0000",
	"EST": "-0500", "EDT": "-0400",
	"CST": "-0600", "CDT": "-0500",
	"MST": "-0700", "MDT": "-0600",
	"PST": "-0800", "PDT": "-0700",
}

var rfc2822Layouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 06 15:04:05 -0700",
	"2 Jan 06 15:04:05 -0700",
}

// ParseDate parses an RFC 2822 date as found in RSS pubDate, tolerating full weekday names
// and the obsolete zone abbreviations. Returns false if the string can't be parsed.
func ParseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	for _, day := range weekdays {
		if strings.Contains(v, day) {
			v = strings.ReplaceAll(v, day, day[:3])
		}
	}

	if idx := strings.LastIndexByte(v, ' '); idx > 0 {
		if off, ok := zoneOffsets[strings.ToUpper(v[idx+1:])]; ok {
			v = v[:idx+1] + off
		}
	}

	for _, layout := range rfc2822Layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
