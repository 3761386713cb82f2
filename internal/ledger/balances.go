// Package ledger computes net pairwise balances and spending statistics from
// raw expense records. All computations are pure reductions over a
// request-scoped snapshot: nothing here holds state between calls.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Ghazal-Dolatshahi/expense-sharing-app/internal/models"
)

// ErrMalformedExpense signals that an expense in the input set violates the
// creation-boundary invariants (non-positive amount, no participants, missing
// payer). The whole computation is rejected rather than skipping the record,
// so a broken snapshot can never produce a misleading partial balance.
var ErrMalformedExpense = errors.New("malformed expense in snapshot")

// DriftTolerance is the threshold for the accumulated share-division
// remainder across a snapshot. Exceeding it logs a warning but never fails
// the computation. Overridable at startup from configuration.
var DriftTolerance = decimal.RequireFromString("0.01")

// outputScale is the decimal scale of emitted balance amounts. Shares are
// accumulated at full division precision; rounding happens only at this
// output boundary.
const outputScale = 2

// Direction orients a balance entry relative to the requesting user.
type Direction string

const (
	// DirectionOwes means the requesting user owes the counterparty.
	DirectionOwes Direction = "owes"
	// DirectionOwedBy means the counterparty owes the requesting user.
	DirectionOwedBy Direction = "owed_by"
)

// Balance is one net position between the requesting user and a counterparty.
// Amount is always strictly positive; Direction carries the sign.
type Balance struct {
	CounterpartyID   string          `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name"`
	Direction        Direction       `json:"direction"`
	Amount           decimal.Decimal `json:"amount"`
}

// pair is an ordered (debtor, creditor) accumulator key.
type pair struct {
	debtor   string
	creditor string
}

// ComputeBalances reduces the expenses visible to userID into one net entry
// per counterparty with a nonzero standing.
//
// Algorithm:
//   - share = amount / participantCount
//   - for every participant P other than the payer, add share at (P, payer)
//     and subtract share at (payer, P), keeping the accumulator
//     anti-symmetric explicitly instead of negating at read time
//   - the self-edge (payer, payer) is never recorded, but a payer listed
//     among the participants still counts in the denominator
//   - read acc[(userID, C)] per counterparty: positive means the user owes C,
//     negative means C owes the user, zero after rounding is suppressed
//
// Both directions of a pair accumulate the identical share value, so the
// result is exactly anti-symmetric and identical across repeated runs on the
// same snapshot. Amounts are rounded (banker's rounding) to two decimal
// places at the output boundary only.
func ComputeBalances(userID string, expenses []models.Expense) ([]Balance, error) {
	acc := make(map[pair]decimal.Decimal)
	names := displayNames(expenses)
	drift := decimal.Zero

	for _, e := range expenses {
		if err := checkExpense(e); err != nil {
			return nil, err
		}

		n := decimal.NewFromInt(int64(len(e.Participants)))
		share := e.Amount.Div(n)
		drift = drift.Add(e.Amount.Sub(share.Mul(n)).Abs())

		for _, p := range e.Participants {
			if p.ID == e.Payer.ID {
				continue // self-debt is meaningless
			}
			forward := pair{debtor: p.ID, creditor: e.Payer.ID}
			acc[forward] = acc[forward].Add(share)
			backward := pair{debtor: e.Payer.ID, creditor: p.ID}
			acc[backward] = acc[backward].Sub(share)
		}
	}

	if drift.GreaterThan(DriftTolerance) {
		slog.Warn("share division drift exceeds tolerance",
			"user_id", userID,
			"drift", drift.String(),
			"tolerance", DriftTolerance.String(),
		)
	}

	// Every pair involving the user has an entry keyed (user, C), so one
	// read per counterparty covers both directions.
	counterparties := make([]string, 0, len(acc))
	for key := range acc {
		if key.debtor == userID {
			counterparties = append(counterparties, key.creditor)
		}
	}
	sort.Strings(counterparties)

	var balances []Balance
	for _, counterparty := range counterparties {
		net := acc[pair{debtor: userID, creditor: counterparty}].RoundBank(outputScale)
		switch {
		case net.IsPositive():
			balances = append(balances, Balance{
				CounterpartyID:   counterparty,
				CounterpartyName: names[counterparty],
				Direction:        DirectionOwes,
				Amount:           net,
			})
		case net.IsNegative():
			balances = append(balances, Balance{
				CounterpartyID:   counterparty,
				CounterpartyName: names[counterparty],
				Direction:        DirectionOwedBy,
				Amount:           net.Neg(),
			})
		}
		// settled pairs are omitted
	}

	return balances, nil
}

// checkExpense verifies the invariants the creation boundary is supposed to
// enforce. A violation here is a data error, not an expected condition.
func checkExpense(e models.Expense) error {
	if len(e.Participants) == 0 {
		return fmt.Errorf("%w: expense %s has no participants", ErrMalformedExpense, e.ID)
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: expense %s has non-positive amount %s", ErrMalformedExpense, e.ID, e.Amount)
	}
	if e.Payer.ID == "" {
		return fmt.Errorf("%w: expense %s has no payer", ErrMalformedExpense, e.ID)
	}
	return nil
}

// displayNames builds the identifier-to-name lookup once from the snapshot,
// covering every payer and participant that can appear as a counterparty.
func displayNames(expenses []models.Expense) map[string]string {
	names := make(map[string]string)
	for _, e := range expenses {
		names[e.Payer.ID] = e.Payer.DisplayName
		for _, p := range e.Participants {
			names[p.ID] = p.DisplayName
		}
	}
	return names
}
