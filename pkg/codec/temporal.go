// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"fmt"
	"time"

	"github.com/sosodev/duration"
)

// dateTimeLayouts are tried in order. Fractional seconds are accepted by
// time.Parse even when the layout has none.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
}

const offsetlessLayout = "2006-01-02T15:04:05"

// DateTime accepts ISO-8601 timestamps with an extended (+01:00) or basic
// (+0100) offset or Z, fractional seconds optional. A timestamp without offset
// is read as UTC.
var DateTime = New("DateTime",
	func(raw any, path Path) (time.Time, Issues) {
		s, ok := raw.(string)
		if !ok {
			return time.Time{}, expected(path, "DateTime", raw)
		}

		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}

		t, err := time.ParseInLocation(offsetlessLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, expected(path, "DateTime", raw)
		}

		return t, nil
	},
	func(v time.Time) any { return v.Format(time.RFC3339Nano) },
)

// LocalDate is a calendar date without zone.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return LocalDate{}, err
	}

	return LocalDateOf(t), nil
}

func LocalDateOf(t time.Time) LocalDate {
	y, m, d := t.Date()

	return LocalDate{Year: y, Month: m, Day: d}
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// In returns midnight of the date in loc.
func (d LocalDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d LocalDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *LocalDate) UnmarshalText(data []byte) error {
	parsed, err := ParseLocalDate(string(data))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Date accepts YYYY-MM-DD.
var Date = New("Date",
	func(raw any, path Path) (LocalDate, Issues) {
		s, ok := raw.(string)
		if !ok {
			return LocalDate{}, expected(path, "Date", raw)
		}

		d, err := ParseLocalDate(s)
		if err != nil {
			return LocalDate{}, expected(path, "Date", raw)
		}

		return d, nil
	},
	func(v LocalDate) any { return v.String() },
)

// LocalTime is a wall-clock time of day.
type LocalTime struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
}

func ParseLocalTime(s string) (LocalTime, error) {
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}

	if err != nil {
		return LocalTime{}, err
	}

	return LocalTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}, nil
}

func (t LocalTime) String() string {
	base := time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC)
	if t.Nanosecond == 0 {
		return base.Format(time.TimeOnly)
	}

	return base.Format("15:04:05.999999999")
}

func (t LocalTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *LocalTime) UnmarshalText(data []byte) error {
	parsed, err := ParseLocalTime(string(data))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// TimeOfDay accepts HH:MM, HH:MM:SS and HH:MM:SS.fff.
var TimeOfDay = New("Time",
	func(raw any, path Path) (LocalTime, Issues) {
		s, ok := raw.(string)
		if !ok {
			return LocalTime{}, expected(path, "Time", raw)
		}

		t, err := ParseLocalTime(s)
		if err != nil {
			return LocalTime{}, expected(path, "Time", raw)
		}

		return t, nil
	},
	func(v LocalTime) any { return v.String() },
)

// Duration accepts ISO-8601 durations such as PT1H30M or P1DT2H.
var Duration = New("Duration",
	func(raw any, path Path) (time.Duration, Issues) {
		s, ok := raw.(string)
		if !ok {
			return 0, expected(path, "Duration", raw)
		}

		d, err := duration.Parse(s)
		if err != nil {
			return 0, expected(path, "Duration", raw)
		}

		return d.ToTimeDuration(), nil
	},
	func(v time.Duration) any { return duration.Format(v) },
)
