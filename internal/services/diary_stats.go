package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lightlog-app/backend/internal/dto"
)

// dateOf truncates a timestamp to its calendar day at midnight UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetStatistics assembles the analytics view over the user's entry dates.
func (s *DiaryService) GetStatistics(userID uuid.UUID) (*dto.DiaryStatistics, error) {
	entries, err := s.allEntries(userID)
	if err != nil {
		return nil, err
	}

	today := dateOf(time.Now().UTC())
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, dateOf(e.Date))
	}

	var currentMonth int64
	for _, d := range dates {
		if d.Year() == today.Year() && d.Month() == today.Month() {
			currentMonth++
		}
	}

	longest, current := calculateStreaks(dates, today)

	return &dto.DiaryStatistics{
		TotalDiaries:        int64(len(entries)),
		CurrentMonthDiaries: currentMonth,
		LongestStreak:       longest,
		CurrentStreak:       current,
		MonthlyStats:        monthlyCounts(dates, today),
		RecentDays:          recentDays(dates, today),
	}, nil
}

// calculateStreaks returns the longest and current consecutive-day streaks
// over a set of entry dates. The current streak is the run ending at today
// when today has an entry, the run ending at yesterday when only yesterday
// has one, and zero otherwise.
func calculateStreaks(dates []time.Time, today time.Time) (longest, current int) {
	if len(dates) == 0 {
		return 0, 0
	}

	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		set[dateOf(d)] = struct{}{}
	}

	sorted := make([]time.Time, 0, len(set))
	for d := range set {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest = 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Equal(sorted[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today = dateOf(today)
	anchor := today
	if _, ok := set[anchor]; !ok {
		anchor = today.AddDate(0, 0, -1)
		if _, ok := set[anchor]; !ok {
			return longest, 0
		}
	}

	for {
		if _, ok := set[anchor]; !ok {
			break
		}
		current++
		anchor = anchor.AddDate(0, 0, -1)
	}

	return longest, current
}

// monthlyCounts buckets entry dates into the trailing 12 calendar months
// including the current one, ascending. Entries outside the window are
// silently excluded; the result always holds exactly 12 buckets.
func monthlyCounts(dates []time.Time, today time.Time) []dto.MonthlyStat {
	// Anchor at the first of the month so subtracting months never drifts a
	// day-overflow into the wrong bucket.
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts := make(map[string]int64, 12)
	keys := make([]string, 0, 12)
	for i := 11; i >= 0; i-- {
		key := firstOfMonth.AddDate(0, -i, 0).Format("2006-01")
		counts[key] = 0
		keys = append(keys, key)
	}

	for _, d := range dates {
		key := d.Format("2006-01")
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}

	stats := make([]dto.MonthlyStat, 0, 12)
	for _, key := range keys {
		stats = append(stats, dto.MonthlyStat{Month: key, Count: counts[key]})
	}
	return stats
}

// recentDays emits exactly the last 30 calendar days including today, oldest
// first, each flagged with whether the user wrote that day.
func recentDays(dates []time.Time, today time.Time) []dto.DayStat {
	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		set[dateOf(d)] = struct{}{}
	}

	today = dateOf(today)
	days := make([]dto.DayStat, 0, 30)
	for i := 29; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		_, has := set[date]
		days = append(days, dto.DayStat{
			Date:     date.Format(dto.DateLayout),
			HasEntry: has,
		})
	}
	return days
}
