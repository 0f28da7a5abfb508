package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/personas/internal/models"
)

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID     string  `json:"userId"`
	NetBalance float64 `json:"netBalance"` // Positive = owed money, Negative = owes money
	TotalPaid  float64 `json:"totalPaid"`  // Total amount paid across all transactions
	TotalOwed  float64 `json:"totalOwed"`  // Total amount this person owes
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string  `json:"from"` // Person who owes
	To     string  `json:"to"`   // Person who is owed
	Amount float64 `json:"amount"`
}

type ledger struct {
	paid map[string]decimal.Decimal
	owed map[string]decimal.Decimal
}

func (l *ledger) pay(userID string, amount decimal.Decimal) {
	l.paid[userID] = l.paid[userID].Add(amount)
	if _, ok := l.owed[userID]; !ok {
		l.owed[userID] = decimal.Zero
	}
}

func (l *ledger) owe(userID string, amount decimal.Decimal) {
	l.owed[userID] = l.owed[userID].Add(amount)
	if _, ok := l.paid[userID]; !ok {
		l.paid[userID] = decimal.Zero
	}
}

// CalculateGroupBalances computes balances across a group's transactions.
// It aggregates who paid what and who owes what, returning both individual
// member balances and a simplified debt list.
//
// Algorithm:
// - split: each split's Paid counts as paid, Owed as owed
// - event: payer paid TotalAmount, each participant owes an equal share
// - p2p: payer's balance improves, payee's balance decreases
// - Aggregate: net_balance = total_paid - total_owed
// - Debts: simplified using greedy matching
//
// Transactions that cannot be attributed (no payer, no participants) are
// skipped rather than rejected.
func CalculateGroupBalances(txns []models.Transaction) ([]MemberBalance, []DebtEdge) {
	l := &ledger{
		paid: make(map[string]decimal.Decimal),
		owed: make(map[string]decimal.Decimal),
	}

	for _, t := range txns {
		switch t.Type {
		case models.TransactionSplit:
			for _, s := range t.Splits {
				if s.ParticipantID == "" {
					continue
				}
				l.pay(s.ParticipantID, decimal.NewFromFloat(s.Paid))
				l.owe(s.ParticipantID, decimal.NewFromFloat(s.Owed))
			}
		case models.TransactionEvent:
			if t.PayerID == "" || len(t.Participants) == 0 {
				continue
			}
			total := decimal.NewFromFloat(t.TotalAmount)
			l.pay(t.PayerID, total)
			share := total.Div(decimal.NewFromInt(int64(len(t.Participants))))
			for _, p := range t.Participants {
				l.owe(p, share)
			}
		case models.TransactionP2P:
			if t.PayerID == "" || t.PayeeID == "" {
				continue
			}
			amount := decimal.NewFromFloat(t.TotalAmount)
			l.pay(t.PayerID, amount)
			l.owe(t.PayeeID, amount)
		}
	}

	ids := make([]string, 0, len(l.paid))
	for id := range l.paid {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	net := make(map[string]decimal.Decimal, len(ids))
	balances := make([]MemberBalance, 0, len(ids))
	for _, id := range ids {
		n := l.paid[id].Sub(l.owed[id])
		net[id] = n
		balances = append(balances, MemberBalance{
			UserID:     id,
			NetBalance: n.Round(2).InexactFloat64(),
			TotalPaid:  l.paid[id].Round(2).InexactFloat64(),
			TotalOwed:  l.owed[id].Round(2).InexactFloat64(),
		})
	}

	return balances, simplifyDebts(ids, net)
}

// simplifyDebts matches debtors with creditors to minimize transfers.
func simplifyDebts(ids []string, net map[string]decimal.Decimal) []DebtEdge {
	noise := decimal.NewFromFloat(0.01)

	var creditors, debtors []string
	remaining := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		switch {
		case net[id].GreaterThan(noise):
			creditors = append(creditors, id)
			remaining[id] = net[id]
		case net[id].LessThan(noise.Neg()):
			debtors = append(debtors, id)
			remaining[id] = net[id].Neg() // Make positive
		}
	}

	// Greedy: largest debts against largest credits.
	byAmount := func(s []string) {
		sort.SliceStable(s, func(i, j int) bool {
			return remaining[s[i]].GreaterThan(remaining[s[j]])
		})
	}
	byAmount(creditors)
	byAmount(debtors)

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(remaining[debtor], remaining[creditor])
		if amount.GreaterThan(noise) {
			edges = append(edges, DebtEdge{
				From:   debtor,
				To:     creditor,
				Amount: amount.Round(2).InexactFloat64(),
			})
		}

		remaining[debtor] = remaining[debtor].Sub(amount)
		remaining[creditor] = remaining[creditor].Sub(amount)

		// Move to next debtor/creditor if fully settled
		if remaining[debtor].LessThan(noise) {
			i++
		}
		if remaining[creditor].LessThan(noise) {
			j++
		}
	}
	return edges
}
