// Package forecast reduces raw 3-hourly forecast samples to one digest per calendar day.
package forecast

import (
	"math"
	"strings"

	"github.com/fakhrymubarak/city-weather/internal/model"
)

// DefaultMaxDays is the number of days the detail view shows.
const DefaultMaxDays = 5

// Summarize groups samples by the date part of their timestamp, keeps the first
// maxDays dates in input order, and builds one digest per date. Nil input or a
// non-positive maxDays yields an empty, non-nil slice.
func Summarize(samples []model.ForecastSample, maxDays int) []model.DailyDigest {
	digests := []model.DailyDigest{}
	if len(samples) == 0 || maxDays <= 0 {
		return digests
	}

	var dates []string
	groups := make(map[string][]model.ForecastSample)
	for _, s := range samples {
		day := dateOf(s.Timestamp)
		if day == "" {
			continue
		}
		if _, ok := groups[day]; !ok {
			dates = append(dates, day)
		}
		groups[day] = append(groups[day], s)
	}

	if len(dates) > maxDays {
		dates = dates[:maxDays]
	}
	for _, day := range dates {
		digests = append(digests, digest(day, groups[day]))
	}
	return digests
}

// SummarizeResponse summarizes a decoded provider payload. A missing list yields an empty slice.
func SummarizeResponse(resp *model.ForecastResponse, maxDays int) []model.DailyDigest {
	return Summarize(resp.Samples(), maxDays)
}

// dateOf returns the part of a "YYYY-MM-DD HH:MM:SS" timestamp before the time.
func dateOf(ts string) string {
	day, _, _ := strings.Cut(ts, " ")
	return day
}

func digest(day string, group []model.ForecastSample) model.DailyDigest {
	hi, lo := group[0].Temperature, group[0].Temperature
	for _, s := range group[1:] {
		hi = math.Max(hi, s.Temperature)
		lo = math.Min(lo, s.Temperature)
	}

	main := representative(group)
	pick := group[0]
	for _, s := range group {
		if s.ConditionMain == main {
			pick = s
			break
		}
	}

	return model.DailyDigest{
		Date:                    day,
		TempMax:                 round(hi),
		TempMin:                 round(lo),
		RepresentativeCondition: main,
		IconID:                  pick.IconID,
		Description:             pick.ConditionDescription,
	}
}

// representative returns the most frequent condition; ties go to the one seen first.
func representative(group []model.ForecastSample) string {
	counts := make(map[string]int)
	var order []string
	for _, s := range group {
		if _, ok := counts[s.ConditionMain]; !ok {
			order = append(order, s.ConditionMain)
		}
		counts[s.ConditionMain]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// round rounds half up (toward +Inf), so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
