package marts

import (
	"math"
	"sort"
	"time"

	"repomart/models"
)

// rollingWindow is the trailing window length of the daily-activity mean.
const rollingWindow = 7

// Cutoff returns the start of the lookback window: now (UTC) minus the given
// number of days.
func Cutoff(now time.Time, lookbackDays int) time.Time {
	return now.UTC().Add(-time.Duration(lookbackDays) * 24 * time.Hour)
}

// FilterSince keeps the rows updated within the lookback window. The boundary
// is inclusive: a row updated exactly at the cutoff stays in.
func FilterSince(rows []models.StagedRepo, cutoff time.Time) []models.StagedRepo {
	var recent []models.StagedRepo
	for _, r := range rows {
		if !r.UpdatedAt.Before(cutoff) {
			recent = append(recent, r)
		}
	}
	return recent
}

// BuildLanguageStats aggregates repo count and average stars/forks per
// language, sorted by repo count descending. Equal counts order by language
// ascending so output is deterministic.
func BuildLanguageStats(rows []models.StagedRepo) []models.LanguageStats {
	type acc struct {
		count int64
		stars int64
		forks int64
	}
	byLang := make(map[string]*acc)
	for _, r := range rows {
		a, ok := byLang[r.Language]
		if !ok {
			a = &acc{}
			byLang[r.Language] = a
		}
		a.count++
		a.stars += int64(r.Stars)
		a.forks += int64(r.Forks)
	}

	stats := make([]models.LanguageStats, 0, len(byLang))
	for lang, a := range byLang {
		stats = append(stats, models.LanguageStats{
			Language:  lang,
			RepoCount: a.count,
			AvgStars:  round1(float64(a.stars) / float64(a.count)),
			AvgForks:  round1(float64(a.forks) / float64(a.count)),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RepoCount != stats[j].RepoCount {
			return stats[i].RepoCount > stats[j].RepoCount
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}

// BuildDailyActivity counts pushes per calendar date of pushed_at, in
// ascending date order, with a trailing 7-row rolling mean. The window needs
// only one observation, so the first rows average over however many dates
// precede them. Dates with zero pushes are not synthesized.
func BuildDailyActivity(rows []models.StagedRepo) []models.DailyActivity {
	counts := make(map[string]int64)
	for _, r := range rows {
		if !r.PushedAt.Valid {
			continue
		}
		counts[r.PushedAt.Time.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	daily := make([]models.DailyActivity, len(dates))
	for i, d := range dates {
		start := i - rollingWindow + 1
		if start < 0 {
			start = 0
		}
		var sum int64
		for _, prev := range dates[start : i+1] {
			sum += counts[prev]
		}
		daily[i] = models.DailyActivity{
			PushDate:     d,
			PushCount:    counts[d],
			Rolling7dAvg: round2(float64(sum) / float64(i+1-start)),
		}
	}
	return daily
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
