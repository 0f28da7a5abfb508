package persona

// Features are the continuous measurements behind a fingerprint, rounded for
// display.
type Features struct {
	AvgGroupSize         float64 `json:"avgGroupSize"`
	EventsPerMonth       float64 `json:"eventsPerMonth"`
	AvgTransactionAmount float64 `json:"avgTransactionAmount"`
	// AvgSettlementHours is a proxy: no settlement timestamps are recorded,
	// so a user who initiates p2p payments is assumed to settle in 48h.
	AvgSettlementHours float64 `json:"avgSettlementHours"`
	MostActiveHour     int     `json:"mostActiveHour"`
	GenerosityScore    float64 `json:"generosityScore"`
}

// ProfileStats summarizes a user's history.
type ProfileStats struct {
	EventsAttended int      `json:"eventsAttended"`
	TotalSpent     float64  `json:"totalSpent"`
	AvgEventCost   float64  `json:"avgEventCost"`
	Features       Features `json:"features"`
}

// Profile is the persona of a single user.
type Profile struct {
	UserID      string       `json:"userId"`
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Emoji       string       `json:"emoji"`
	Description string       `json:"description"`
	Traits      []string     `json:"traits"`
	Fingerprint Fingerprint  `json:"fingerprint"`
	Match       MatchResult  `json:"match"`
	Stats       ProfileStats `json:"stats"`
}

// AnalyzeUser extracts, matches and describes userID.
func (c *Catalog) AnalyzeUser(userID string, rec Records) Profile {
	s := deriveUserStats(userID, rec)
	fp := s.fingerprint()
	m := c.Match(fp)
	d := c.Details(m.Key)

	var avgEventCost float64
	if s.eventsJoined > 0 {
		avgEventCost = s.totalSpent / float64(s.eventsJoined)
	}

	return Profile{
		UserID:      userID,
		Key:         m.Key,
		Name:        d.Name,
		Emoji:       d.Emoji,
		Description: d.Description,
		Traits:      d.Traits,
		Fingerprint: fp,
		Match:       m,
		Stats: ProfileStats{
			EventsAttended: s.eventsJoined,
			TotalSpent:     round(s.totalSpent, 2),
			AvgEventCost:   round(avgEventCost, 2),
			Features: Features{
				AvgGroupSize:         round(s.avgGroupSize(), 1),
				EventsPerMonth:       round(s.eventsPerMonth(), 1),
				AvgTransactionAmount: round(s.avgSpend(), 2),
				AvgSettlementHours:   s.settlementHours(),
				MostActiveHour:       roundHour(s.meanHour()),
				GenerosityScore:      round(s.generosity(), 2),
			},
		},
	}
}

// AnalyzeUserProfile analyzes userID against the default catalog.
func AnalyzeUserProfile(userID string, rec Records) Profile {
	return Default().AnalyzeUser(userID, rec)
}

func roundHour(h float64) int {
	return int(roundHalfUp(h))
}
