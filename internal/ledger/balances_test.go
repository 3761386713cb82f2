package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

func ref(id string) models.UserRef {
	return models.UserRef{ID: id, DisplayName: "name-" + id}
}

func expense(amount, payerID string, participantIDs ...string) models.Expense {
	participants := make([]models.UserRef, len(participantIDs))
	for i, id := range participantIDs {
		participants[i] = ref(id)
	}
	return models.Expense{
		ID:           "exp-" + amount + "-" + payerID,
		Description:  "test expense",
		Amount:       decimal.RequireFromString(amount),
		Category:     "General",
		Payer:        ref(payerID),
		Participants: participants,
	}
}

func findBalance(t *testing.T, balances []Balance, counterpartyID string) Balance {
	t.Helper()
	for _, b := range balances {
		if b.CounterpartyID == counterpartyID {
			return b
		}
	}
	t.Fatalf("no balance entry for counterparty %s in %v", counterpartyID, balances)
	return Balance{}
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name         string
		userID       string
		expenses     []models.Expense
		wantErr      error
		validateFunc func(t *testing.T, balances []Balance)
	}{
		{
			name:   "two participants including payer",
			userID: "u2",
			expenses: []models.Expense{
				expense("100", "u1", "u1", "u2"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 1 {
					t.Fatalf("expected 1 entry, got %d", len(balances))
				}
				b := balances[0]
				if b.CounterpartyID != "u1" || b.Direction != DirectionOwes {
					t.Errorf("expected u2 owes u1, got %+v", b)
				}
				if !b.Amount.Equal(decimal.RequireFromString("50")) {
					t.Errorf("amount = %s, want 50", b.Amount)
				}
				if b.CounterpartyName != "name-u1" {
					t.Errorf("counterparty name = %q, want name-u1", b.CounterpartyName)
				}
			},
		},
		{
			name:   "payer view of the same expense",
			userID: "u1",
			expenses: []models.Expense{
				expense("100", "u1", "u1", "u2"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 1 {
					t.Fatalf("expected 1 entry, got %d", len(balances))
				}
				b := balances[0]
				if b.CounterpartyID != "u2" || b.Direction != DirectionOwedBy {
					t.Errorf("expected u1 owed by u2, got %+v", b)
				}
				if !b.Amount.Equal(decimal.RequireFromString("50")) {
					t.Errorf("amount = %s, want 50", b.Amount)
				}
			},
		},
		{
			name:   "opposing expenses net to a single direction",
			userID: "u1",
			expenses: []models.Expense{
				expense("100", "u1", "u1", "u2"),
				expense("60", "u2", "u1", "u2"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				// u2 owes u1 50 from the first, u1 owes u2 30 from the
				// second: net u2 owes u1 20.
				if len(balances) != 1 {
					t.Fatalf("expected 1 entry, got %d", len(balances))
				}
				b := balances[0]
				if b.CounterpartyID != "u2" || b.Direction != DirectionOwedBy {
					t.Errorf("expected u1 owed by u2, got %+v", b)
				}
				if !b.Amount.Equal(decimal.RequireFromString("20")) {
					t.Errorf("amount = %s, want 20", b.Amount)
				}
			},
		},
		{
			name:   "three-way split lists one entry per counterparty",
			userID: "u1",
			expenses: []models.Expense{
				expense("90", "u1", "u1", "u2", "u3"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 2 {
					t.Fatalf("expected 2 entries, got %d", len(balances))
				}
				for _, counterparty := range []string{"u2", "u3"} {
					b := findBalance(t, balances, counterparty)
					if b.Direction != DirectionOwedBy {
						t.Errorf("%s direction = %s, want %s", counterparty, b.Direction, DirectionOwedBy)
					}
					if !b.Amount.Equal(decimal.RequireFromString("30")) {
						t.Errorf("%s amount = %s, want 30", counterparty, b.Amount)
					}
				}
			},
		},
		{
			name:   "payer as sole participant cancels to nothing",
			userID: "u1",
			expenses: []models.Expense{
				expense("100", "u1", "u1"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no entries, got %v", balances)
				}
			},
		},
		{
			name:   "settled pair is suppressed",
			userID: "u1",
			expenses: []models.Expense{
				expense("80", "u1", "u1", "u2"),
				expense("80", "u2", "u1", "u2"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected settled pair to be omitted, got %v", balances)
				}
			},
		},
		{
			name:   "payer excluded from participants owes nothing themselves",
			userID: "u2",
			expenses: []models.Expense{
				// u1 paid but only u2 and u3 share the cost.
				expense("90", "u1", "u2", "u3"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 1 {
					t.Fatalf("expected 1 entry, got %d", len(balances))
				}
				b := balances[0]
				if b.CounterpartyID != "u1" || b.Direction != DirectionOwes {
					t.Errorf("expected u2 owes u1, got %+v", b)
				}
				if !b.Amount.Equal(decimal.RequireFromString("45")) {
					t.Errorf("amount = %s, want 45", b.Amount)
				}
			},
		},
		{
			name:   "non-terminating division still rounds cleanly",
			userID: "u2",
			expenses: []models.Expense{
				expense("100", "u1", "u1", "u2", "u3"),
			},
			validateFunc: func(t *testing.T, balances []Balance) {
				b := findBalance(t, balances, "u1")
				if !b.Amount.Equal(decimal.RequireFromString("33.33")) {
					t.Errorf("amount = %s, want 33.33", b.Amount)
				}
			},
		},
		{
			name:     "empty snapshot yields no balances",
			userID:   "u1",
			expenses: nil,
			validateFunc: func(t *testing.T, balances []Balance) {
				if len(balances) != 0 {
					t.Errorf("expected no entries, got %v", balances)
				}
			},
		},
		{
			name:   "non-positive amount fails the whole computation",
			userID: "u1",
			expenses: []models.Expense{
				expense("100", "u1", "u1", "u2"),
				expense("0", "u2", "u1", "u2"),
			},
			wantErr: ErrMalformedExpense,
		},
		{
			name:   "empty participants fails the whole computation",
			userID: "u1",
			expenses: []models.Expense{
				expense("50", "u2"),
			},
			wantErr: ErrMalformedExpense,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, err := ComputeBalances(tt.userID, tt.expenses)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeBalances() error = %v, want %v", err, tt.wantErr)
				}
				if balances != nil {
					t.Errorf("expected no partial output on error, got %v", balances)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeBalances() failed: %v", err)
			}
			tt.validateFunc(t, balances)
		})
	}
}

// TestComputeBalances_Conservation checks that across all users, owed and
// owing amounts cancel out exactly.
func TestComputeBalances_Conservation(t *testing.T) {
	expenses := []models.Expense{
		expense("100", "u1", "u1", "u2", "u3"),
		expense("45.55", "u2", "u1", "u2"),
		expense("12.30", "u3", "u1", "u2", "u3", "u4"),
		expense("7", "u4", "u4"),
	}

	sum := decimal.Zero
	for _, userID := range []string{"u1", "u2", "u3", "u4"} {
		balances, err := ComputeBalances(userID, expenses)
		if err != nil {
			t.Fatalf("ComputeBalances(%s) failed: %v", userID, err)
		}
		for _, b := range balances {
			if b.CounterpartyID == userID {
				t.Errorf("user %s appears as their own counterparty", userID)
			}
			if !b.Amount.IsPositive() {
				t.Errorf("non-positive amount %s in entry %+v", b.Amount, b)
			}
			if b.Direction == DirectionOwedBy {
				sum = sum.Add(b.Amount)
			} else {
				sum = sum.Sub(b.Amount)
			}
		}
	}
	if !sum.IsZero() {
		t.Errorf("net positions across all users sum to %s, want 0", sum)
	}
}

// TestComputeBalances_Symmetry checks that both sides of a pair report the
// same amount in opposite directions.
func TestComputeBalances_Symmetry(t *testing.T) {
	expenses := []models.Expense{
		expense("100", "u1", "u1", "u2", "u3"),
		expense("61.47", "u2", "u1", "u2", "u3"),
		expense("33.10", "u3", "u2", "u3"),
	}

	views := make(map[string][]Balance)
	for _, userID := range []string{"u1", "u2", "u3"} {
		balances, err := ComputeBalances(userID, expenses)
		if err != nil {
			t.Fatalf("ComputeBalances(%s) failed: %v", userID, err)
		}
		views[userID] = balances
	}

	for userID, balances := range views {
		for _, b := range balances {
			mirror := findBalance(t, views[b.CounterpartyID], userID)
			if !mirror.Amount.Equal(b.Amount) {
				t.Errorf("%s vs %s: amounts %s and %s disagree",
					userID, b.CounterpartyID, b.Amount, mirror.Amount)
			}
			if mirror.Direction == b.Direction {
				t.Errorf("%s vs %s: both report direction %s", userID, b.CounterpartyID, b.Direction)
			}
		}
	}
}

// TestComputeBalances_Idempotence checks that repeated runs over the same
// snapshot produce identical output.
func TestComputeBalances_Idempotence(t *testing.T) {
	expenses := []models.Expense{
		expense("100", "u1", "u1", "u2", "u3"),
		expense("10", "u2", "u1", "u2", "u3"),
		expense("0.01", "u3", "u1", "u3"),
	}

	first, err := ComputeBalances("u1", expenses)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := ComputeBalances("u1", expenses)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs disagree on entry count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].CounterpartyID != second[i].CounterpartyID ||
			first[i].Direction != second[i].Direction ||
			!first[i].Amount.Equal(second[i].Amount) {
			t.Errorf("entry %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// TestComputeBalances_UnrelatedExpense checks that an expense the user is not
// part of never shows up in their view.
func TestComputeBalances_UnrelatedExpense(t *testing.T) {
	expenses := []models.Expense{
		expense("100", "u1", "u1", "u2"),
		expense("500", "u3", "u3", "u4"),
	}

	balances, err := ComputeBalances("u1", expenses)
	if err != nil {
		t.Fatalf("ComputeBalances failed: %v", err)
	}
	for _, b := range balances {
		if b.CounterpartyID == "u3" || b.CounterpartyID == "u4" {
			t.Errorf("unrelated user %s appeared in u1's balances", b.CounterpartyID)
		}
	}
	if len(balances) != 1 {
		t.Errorf("expected exactly 1 entry for u1, got %v", balances)
	}
}
