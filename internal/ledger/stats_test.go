package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

func categorizedExpense(amount, category string, createdAt time.Time) models.Expense {
	e := expense(amount, "u1", "u1", "u2")
	e.Category = category
	e.CreatedAt = createdAt.Unix()
	return e
}

func TestTotalsByCategory(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		expenses []models.Expense
		want     map[string]string
	}{
		{
			name: "sums per category",
			expenses: []models.Expense{
				categorizedExpense("40", "Food", now),
				categorizedExpense("60", "Food", now),
				categorizedExpense("20", "Travel", now),
			},
			want: map[string]string{"Food": "100", "Travel": "20"},
		},
		{
			name: "blank category folds into the default",
			expenses: []models.Expense{
				categorizedExpense("15", "", now),
				categorizedExpense("5", models.DefaultCategory, now),
			},
			want: map[string]string{models.DefaultCategory: "20"},
		},
		{
			name:     "empty set yields empty totals",
			expenses: nil,
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := TotalsByCategory(tt.expenses)
			if len(totals) != len(tt.want) {
				t.Fatalf("got %d categories, want %d: %v", len(totals), len(tt.want), totals)
			}
			for category, want := range tt.want {
				got, ok := totals[category]
				if !ok {
					t.Errorf("missing category %q", category)
					continue
				}
				if !got.Equal(decimal.RequireFromString(want)) {
					t.Errorf("%s total = %s, want %s", category, got, want)
				}
			}
		})
	}
}

func TestTotalsByMonth(t *testing.T) {
	t.Run("buckets by month and sorts descending", func(t *testing.T) {
		expenses := []models.Expense{
			categorizedExpense("10", "Food", time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)),
			categorizedExpense("20", "Food", time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC)),
			categorizedExpense("30", "Travel", time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)),
			categorizedExpense("40", "Rent", time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC)),
		}

		totals := TotalsByMonth(expenses)
		if len(totals) != 3 {
			t.Fatalf("got %d buckets, want 3: %v", len(totals), totals)
		}

		wantOrder := []MonthTotal{
			{Year: 2026, Month: time.March, Total: decimal.RequireFromString("30")},
			{Year: 2026, Month: time.January, Total: decimal.RequireFromString("30")},
			{Year: 2025, Month: time.December, Total: decimal.RequireFromString("40")},
		}
		for i, want := range wantOrder {
			got := totals[i]
			if got.Year != want.Year || got.Month != want.Month || !got.Total.Equal(want.Total) {
				t.Errorf("bucket %d = %+v, want %+v", i, got, want)
			}
		}
	})

	t.Run("caps at the 12 most recent buckets", func(t *testing.T) {
		var expenses []models.Expense
		start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
		for i := 0; i < 15; i++ {
			expenses = append(expenses, categorizedExpense("10", "Food", start.AddDate(0, i, 0)))
		}

		totals := TotalsByMonth(expenses)
		if len(totals) != 12 {
			t.Fatalf("got %d buckets, want 12", len(totals))
		}
		// Newest bucket is March 2026; the three oldest months fall off.
		if totals[0].Year != 2026 || totals[0].Month != time.March {
			t.Errorf("newest bucket = %d-%s, want 2026-March", totals[0].Year, totals[0].Month)
		}
		if totals[11].Year != 2025 || totals[11].Month != time.April {
			t.Errorf("oldest kept bucket = %d-%s, want 2025-April", totals[11].Year, totals[11].Month)
		}
	})

	t.Run("empty set yields no buckets", func(t *testing.T) {
		if totals := TotalsByMonth(nil); len(totals) != 0 {
			t.Errorf("expected no buckets, got %v", totals)
		}
	})
}
