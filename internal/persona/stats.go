package persona

import (
	"math"
	"time"

	"github.com/mmynk/personas/internal/models"
)

// Records is the materialized history an analysis runs over.
// The engine never modifies it.
type Records struct {
	Users        []models.User        `json:"users"`
	Groups       []models.Group       `json:"groups"`
	Events       []models.Event       `json:"events"`
	Transactions []models.Transaction `json:"transactions"`
}

const (
	defaultAvgGroupSize = 2
	defaultHour         = 18
	daysPerMonth        = 30

	fastSettlementHours = 48
	slowSettlementHours = 120
)

// userStats is the single traversal shared by trait bucketing and the
// descriptive profile.
type userStats struct {
	transactions  int // transactions the user paid into
	fronted       int // split/event transactions the user paid for
	p2pSent       int
	totalSpent    float64
	eventsJoined  int
	eventsCreated int
	participants  int // summed participant counts of joined events
	datedEvents   int
	hourSum       int
	earliest      time.Time
	latest        time.Time
}

func deriveUserStats(userID string, rec Records) userStats {
	var s userStats

	for i := range rec.Transactions {
		t := &rec.Transactions[i]
		if t.PayerID == userID {
			s.transactions++
			s.totalSpent += finite(t.TotalAmount)
			if t.IsPayerFronted() {
				s.fronted++
			}
			if t.Type == models.TransactionP2P {
				s.p2pSent++
			}
			continue
		}
		if t.Type != models.TransactionSplit {
			continue
		}
		if split, ok := t.SplitFor(userID); ok && split.Paid > 0 {
			s.transactions++
			s.totalSpent += finite(split.Paid)
		}
	}

	for i := range rec.Events {
		e := &rec.Events[i]
		if !e.HasParticipant(userID) {
			continue
		}
		s.eventsJoined++
		s.participants += len(e.Participants)
		if e.CreatorID == userID {
			s.eventsCreated++
		}
		s.addDate(e)
	}
	return s
}

func (s *userStats) addDate(e *models.Event) {
	if !e.HasDate() {
		return
	}
	s.datedEvents++
	s.hourSum += e.Date.Hour()
	if s.earliest.IsZero() || e.Date.Before(s.earliest) {
		s.earliest = e.Date
	}
	if s.latest.IsZero() || e.Date.After(s.latest) {
		s.latest = e.Date
	}
}

func (s userStats) avgGroupSize() float64 {
	if s.eventsJoined == 0 {
		return defaultAvgGroupSize
	}
	return float64(s.participants) / float64(s.eventsJoined)
}

func (s userStats) createRate() float64 {
	return ratio(s.eventsCreated, s.eventsJoined)
}

func (s userStats) avgSpend() float64 {
	if s.transactions == 0 {
		return 0
	}
	return s.totalSpent / float64(s.transactions)
}

func (s userStats) generosity() float64 {
	return ratio(s.fronted, s.transactions)
}

func (s userStats) p2pRate() float64 {
	return ratio(s.p2pSent, s.transactions)
}

func (s userStats) eventsPerMonth() float64 {
	if s.datedEvents == 0 {
		return 0
	}
	months := s.latest.Sub(s.earliest).Hours() / 24 / daysPerMonth
	if months < 1 {
		months = 1
	}
	return float64(s.eventsJoined) / months
}

func (s userStats) meanHour() float64 {
	if s.datedEvents == 0 {
		return defaultHour
	}
	return float64(s.hourSum) / float64(s.datedEvents)
}

func (s userStats) settlementHours() float64 {
	if s.p2pSent > 0 {
		return fastSettlementHours
	}
	return slowSettlementHours
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// round scales v by 10^places, rounds half up and scales back, so that
// 1.005 becomes 1 because 1.005*100 is just below 100.5 in binary.
func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow10(places)
	return roundHalfUp(v*p) / p
}

// roundHalfUp rounds to the nearest integer with halves going toward
// positive infinity.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return f
}
