package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

// monthBucketLimit caps TotalsByMonth at the most recent distinct buckets.
const monthBucketLimit = 12

// MonthTotal is the spending total for one (year, month) bucket.
type MonthTotal struct {
	Year  int             `json:"year"`
	Month time.Month      `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// TotalsByCategory sums expense amounts per category label. Blank categories
// fold into models.DefaultCategory. Totals are returned raw; any scaling for
// chart rendering is the presentation layer's job, including guarding its own
// division by zero on an empty or all-equal set.
func TotalsByCategory(expenses []models.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = models.DefaultCategory
		}
		totals[category] = totals[category].Add(e.Amount)
	}
	return totals
}

// TotalsByMonth sums expense amounts per distinct (year, month) bucket
// present in the data, sorted most recent first and capped at the 12 most
// recent buckets.
func TotalsByMonth(expenses []models.Expense) []MonthTotal {
	type bucket struct {
		year  int
		month time.Month
	}

	totals := make(map[bucket]decimal.Decimal)
	for _, e := range expenses {
		created := time.Unix(e.CreatedAt, 0).UTC()
		key := bucket{year: created.Year(), month: created.Month()}
		totals[key] = totals[key].Add(e.Amount)
	}

	buckets := make([]bucket, 0, len(totals))
	for key := range totals {
		buckets = append(buckets, key)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].year != buckets[j].year {
			return buckets[i].year > buckets[j].year
		}
		return buckets[i].month > buckets[j].month
	})
	if len(buckets) > monthBucketLimit {
		buckets = buckets[:monthBucketLimit]
	}

	result := make([]MonthTotal, len(buckets))
	for i, key := range buckets {
		result[i] = MonthTotal{Year: key.year, Month: key.month, Total: totals[key]}
	}
	return result
}
