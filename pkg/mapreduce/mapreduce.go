// Package mapreduce reduces daily click records into per-category totals.
package mapreduce

import "github.com/dtnitsch/clickwatch/models"

// Map generates per-category click counts for the records dated date.
func Map(records []models.DailyRecord, date string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Date == date {
			counts[r.Category] += r.Count
		}
	}
	return counts
}

// Summarize totals records for one date. No matching records is a valid, empty
// summary.
func Summarize(records []models.DailyRecord, date string) models.DailySummary {
	byCategory := Map(records, date)
	total := 0
	for _, count := range byCategory {
		total += count
	}
	return models.DailySummary{
		Date:       date,
		ByCategory: byCategory,
		Total:      total,
	}
}

// Total sums every record regardless of date.
func Total(records []models.DailyRecord) int {
	total := 0
	for _, r := range records {
		total += r.Count
	}
	return total
}
