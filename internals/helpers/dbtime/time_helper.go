// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// DateKey mengembalikan tanggal (YYYY-MM-DD) dari t di timezone bisnis.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(locOrUTC(loc)).Format(DateLayout)
}

// StartOfDay: jam 00:00 pada tanggal t di timezone bisnis.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	l := locOrUTC(loc)
	y, m, d := t.In(l).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, l)
}

// SameDay: true jika a dan b jatuh pada tanggal kalender yang sama di timezone bisnis.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateKey(a, loc) == DateKey(b, loc)
}

// ParseDate mem-parsing "YYYY-MM-DD" sebagai awal hari di timezone bisnis.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), locOrUTC(loc))
}
