package persona

// Extract computes the fingerprint of userID from rec.
// It never fails: each ratio falls back to a fixed default when its
// denominator is zero.
func Extract(userID string, rec Records) Fingerprint {
	return deriveUserStats(userID, rec).fingerprint()
}

// ExtractUserFeatures is an alias of Extract kept for callers that mirror the
// app's naming.
func ExtractUserFeatures(userID string, rec Records) Fingerprint {
	return Extract(userID, rec)
}

func (s userStats) fingerprint() Fingerprint {
	return Fingerprint{
		GroupSize:      groupSizeBucket(s.avgGroupSize()),
		Socialness:     socialnessBucket(s.createRate()),
		BudgetLevel:    budgetBucket(s.avgSpend()),
		Generosity:     generosityBucket(s.generosity()),
		PaymentSpeed:   paymentSpeedBucket(s.p2pRate()),
		ActivityLevel:  activityBucket(s.eventsPerMonth()),
		TimePreference: timeBucket(s.meanHour()),
	}
}
