package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/personas/internal/models"
)

// EqualSplits divides total evenly among participants and records that the
// payer covered all of it. Cents that do not divide evenly go to the first
// participants, so owed amounts always add up to total and nets add up to 0.
// A payer who is not a participant gets a split that owes nothing.
func EqualSplits(payerID string, total float64, participants []string) ([]models.Split, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if total < 0 {
		return nil, fmt.Errorf("total cannot be negative")
	}

	cents := decimal.NewFromFloat(total).Shift(2).Round(0).IntPart()
	n := int64(len(participants))
	base, extra := cents/n, cents%n

	ids := participants
	if payerID != "" && !containsID(participants, payerID) {
		ids = append(append([]string(nil), participants...), payerID)
	}

	splits := make([]models.Split, 0, len(ids))
	for i, id := range ids {
		var owedCents int64
		if i < len(participants) {
			owedCents = base
			if int64(i) < extra {
				owedCents++
			}
		}
		owed := decimal.New(owedCents, -2)
		paid := decimal.Zero
		if id == payerID {
			paid = decimal.New(cents, -2)
		}
		splits = append(splits, models.Split{
			ParticipantID: id,
			Paid:          paid.InexactFloat64(),
			Owed:          owed.InexactFloat64(),
			Net:           paid.Sub(owed).InexactFloat64(),
		})
	}
	return splits, nil
}

// Reconcile reports how far splits are from adding up: the difference
// between the sum of Paid and total, and the sum of Net (ideally both 0).
func Reconcile(total float64, splits []models.Split) (paidDiff, netSum float64) {
	paid, net := decimal.Zero, decimal.Zero
	for _, s := range splits {
		paid = paid.Add(decimal.NewFromFloat(s.Paid))
		net = net.Add(decimal.NewFromFloat(s.Net))
	}
	return paid.Sub(decimal.NewFromFloat(total)).InexactFloat64(), net.InexactFloat64()
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
