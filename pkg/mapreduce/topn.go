package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/clickwatch/models"
)

// CategoryCount is one line of a rendered summary.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// Categories returns the summary's categories sorted by name.
func Categories(summary models.DailySummary) []CategoryCount {
	out := make([]CategoryCount, 0, len(summary.ByCategory))
	for k, v := range summary.ByCategory {
		out = append(out, CategoryCount{Category: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategories returns the n busiest categories as "category:count" strings,
// ties broken by name.
func TopCategories(summary models.DailySummary, n int) []string {
	ss := Categories(summary)
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].Count > ss[j].Count
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	top := make([]string, limit)
	for i := 0; i < limit; i++ {
		top[i] = fmt.Sprintf("%s:%d", ss[i].Category, ss[i].Count)
	}
	return top
}
