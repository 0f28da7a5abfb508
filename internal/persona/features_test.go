package persona

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/personas/internal/models"
)

func at(day, hour int) time.Time {
	return time.Date(2026, time.January, day, hour, 0, 0, 0, time.UTC)
}

func TestExtractEmptyHistory(t *testing.T) {
	fp := Extract("nobody", Records{})
	assert.Equal(t, Fingerprint{
		GroupSize:      SizeSmall,
		Socialness:     Introvert,
		BudgetLevel:    Budget,
		Generosity:     Low,
		PaymentSpeed:   Slow,
		ActivityLevel:  Low,
		TimePreference: Evening,
	}, fp)
}

func TestExtractGroupSize(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  string
	}{
		{"exactly three", []int{3, 3}, SizeSmall},
		{"just above three", []int{3, 3, 3, 4}, SizeMedium}, // 3.25
		{"exactly six", []int{6}, SizeMedium},
		{"above six", []int{6, 7}, SizeLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Records
			for i, n := range tt.sizes {
				participants := []string{"me"}
				for j := 1; j < n; j++ {
					participants = append(participants, string(rune('a'+j)))
				}
				rec.Events = append(rec.Events, models.Event{
					ID: string(rune('A' + i)), GroupID: "g", Date: at(1+i, 18),
					CreatorID: "other", Participants: participants,
				})
			}
			assert.Equal(t, tt.want, Extract("me", rec).GroupSize)
		})
	}
}

func TestExtractSpending(t *testing.T) {
	rec := Records{Transactions: []models.Transaction{
		{ID: "a", Type: models.TransactionSplit, GroupID: "g", PayerID: "me", TotalAmount: 30},
		{ID: "b", Type: models.TransactionP2P, GroupID: "g", PayerID: "me", PayeeID: "x", TotalAmount: 10},
		{ID: "c", Type: models.TransactionSplit, GroupID: "g", PayerID: "x", TotalAmount: 40, Splits: []models.Split{
			{ParticipantID: "x", Paid: 20, Owed: 20},
			{ParticipantID: "me", Paid: 20, Owed: 20},
		}},
		// Not counted: zero paid, payee only, event participant only.
		{ID: "d", Type: models.TransactionSplit, GroupID: "g", PayerID: "x", TotalAmount: 40, Splits: []models.Split{
			{ParticipantID: "me", Paid: 0, Owed: 20},
		}},
		{ID: "e", Type: models.TransactionP2P, GroupID: "g", PayerID: "x", PayeeID: "me", TotalAmount: 99},
		{ID: "f", Type: models.TransactionEvent, GroupID: "g", PayerID: "x", TotalAmount: 99, Participants: []string{"me", "x"}},
	}}

	s := deriveUserStats("me", rec)
	assert.Equal(t, 3, s.transactions)
	assert.Equal(t, 60.0, s.totalSpent)
	assert.InDelta(t, 20.0, s.avgSpend(), 1e-9)
	assert.InDelta(t, 1.0/3, s.generosity(), 1e-9)
	assert.InDelta(t, 1.0/3, s.p2pRate(), 1e-9)

	fp := Extract("me", rec)
	assert.Equal(t, Moderate, fp.BudgetLevel) // exactly 20 is not below 20
	assert.Equal(t, Medium, fp.Generosity)
	assert.Equal(t, Medium, fp.PaymentSpeed)
}

func TestExtractToleratesBadSplits(t *testing.T) {
	rec := Records{Transactions: []models.Transaction{
		{ID: "a", Type: models.TransactionSplit, GroupID: "g", PayerID: "x", TotalAmount: 50},
		{ID: "b", Type: models.TransactionSplit, GroupID: "g", PayerID: "x", TotalAmount: 50, Splits: []models.Split{
			{ParticipantID: "me", Paid: math.NaN()},
		}},
		{ID: "c", Type: models.TransactionEvent, GroupID: "g", PayerID: "me", TotalAmount: math.Inf(1)},
	}}
	s := deriveUserStats("me", rec)
	assert.Equal(t, 1, s.transactions)
	assert.Equal(t, 0.0, s.totalSpent)
	assert.Equal(t, Budget, Extract("me", rec).BudgetLevel)
}

func TestExtractActivityAndTime(t *testing.T) {
	// Nine events over ten days: span is floored to one month.
	var rec Records
	for i := 0; i < 9; i++ {
		rec.Events = append(rec.Events, models.Event{
			ID: string(rune('a' + i)), GroupID: "g", Date: at(1+i, 9),
			CreatorID: "me", Participants: []string{"me"},
		})
	}
	// An undated event still counts as attended.
	rec.Events = append(rec.Events, models.Event{ID: "z", GroupID: "g", CreatorID: "x", Participants: []string{"me", "x"}})

	s := deriveUserStats("me", rec)
	assert.Equal(t, 10, s.eventsJoined)
	assert.Equal(t, 9, s.datedEvents)
	assert.Equal(t, 10.0, s.eventsPerMonth())
	assert.Equal(t, 9.0, s.meanHour())

	fp := Extract("me", rec)
	assert.Equal(t, High, fp.ActivityLevel)
	assert.Equal(t, Morning, fp.TimePreference)
	assert.Equal(t, Extrovert, fp.Socialness) // 9 of 10 created
}

func TestEventsPerMonthSpan(t *testing.T) {
	rec := Records{Events: []models.Event{
		{ID: "a", Date: at(1, 12), Participants: []string{"me"}},
		{ID: "b", Date: at(1, 12).Add(60 * 24 * time.Hour), Participants: []string{"me"}},
	}}
	assert.InDelta(t, 1.0, deriveUserStats("me", rec).eventsPerMonth(), 1e-9)
}

func TestExtractUndatedEvents(t *testing.T) {
	rec := Records{Events: []models.Event{
		{ID: "a", CreatorID: "me", Participants: []string{"me", "x", "y", "z"}},
	}}
	fp := Extract("me", rec)
	assert.Equal(t, Low, fp.ActivityLevel)
	assert.Equal(t, Evening, fp.TimePreference)
	assert.Equal(t, SizeMedium, fp.GroupSize)
	assert.Equal(t, Extrovert, fp.Socialness)
}
