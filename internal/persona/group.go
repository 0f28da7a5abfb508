package persona

import (
	"math"
	"sort"
)

// MemberMatch is the persona of one group member.
type MemberMatch struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name,omitempty"`
	Key        string  `json:"key"`
	Emoji      string  `json:"emoji"`
	Similarity float64 `json:"similarity"`
}

// DistributionEntry counts the members matching one archetype.
type DistributionEntry struct {
	Key        string `json:"key"`
	Emoji      string `json:"emoji"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// GroupStats describes a group's history as a whole. It is computed from
// the group's own events and transactions, not averaged from members.
type GroupStats struct {
	MemberCount    int     `json:"memberCount"`
	TotalEvents    int     `json:"totalEvents"`
	TotalSpent     float64 `json:"totalSpent"`
	AvgEventCost   float64 `json:"avgEventCost"`
	AvgGroupSize   float64 `json:"avgGroupSize"`
	MostActiveHour int     `json:"mostActiveHour"`
	Generosity     float64 `json:"generosity"`
}

// GroupProfile is the dominant persona worded for the group.
type GroupProfile struct {
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Emoji       string     `json:"emoji"`
	Description string     `json:"description"`
	Traits      []string   `json:"traits"`
	Stats       GroupStats `json:"stats"`
}

// GroupResult is the persona analysis of a group.
type GroupResult struct {
	GroupID      string              `json:"groupId"`
	GroupName    string              `json:"groupName,omitempty"`
	Dominant     GroupProfile        `json:"dominant"`
	Distribution []DistributionEntry `json:"distribution"`
	Traits       []string            `json:"traits"`
	Stats        GroupStats          `json:"stats"`
	Members      []MemberMatch       `json:"members"`
}

// AnalyzeGroup classifies every member of groupID, in the given order, and
// reports the dominant persona and the distribution. The dominant persona
// is the most common one; among equal counts the first one seen wins.
func (c *Catalog) AnalyzeGroup(groupID string, memberIDs []string, rec Records) GroupResult {
	names := userNames(rec)
	members := make([]MemberMatch, 0, len(memberIDs))
	counts := make(map[string]int)
	var order []string

	for _, id := range memberIDs {
		m := c.Match(Extract(id, rec))
		if counts[m.Key] == 0 {
			order = append(order, m.Key)
		}
		counts[m.Key]++
		members = append(members, MemberMatch{
			UserID:     id,
			Name:       names[id],
			Key:        m.Key,
			Emoji:      c.Details(m.Key).Emoji,
			Similarity: m.Similarity,
		})
	}

	dominant := UnknownKey
	best := 0
	for _, key := range order {
		if counts[key] > best {
			dominant, best = key, counts[key]
		}
	}

	distribution := make([]DistributionEntry, 0, len(order))
	for _, key := range order {
		distribution = append(distribution, DistributionEntry{
			Key:        key,
			Emoji:      c.Details(key).Emoji,
			Count:      counts[key],
			Percentage: int(math.Round(100 * float64(counts[key]) / float64(len(memberIDs)))),
		})
	}
	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Count > distribution[j].Count
	})

	stats := deriveGroupStats(groupID, len(memberIDs), rec)
	d := c.GroupDetails(dominant)

	return GroupResult{
		GroupID:   groupID,
		GroupName: groupName(groupID, rec),
		Dominant: GroupProfile{
			Key:         dominant,
			Name:        d.Name,
			Emoji:       d.Emoji,
			Description: d.Description,
			Traits:      d.Traits,
			Stats:       stats,
		},
		Distribution: distribution,
		Traits:       cloneStrings(d.Traits),
		Stats:        stats,
		Members:      members,
	}
}

// AnalyzeGroupPersona analyzes a group against the default catalog.
func AnalyzeGroupPersona(groupID string, memberIDs []string, rec Records) GroupResult {
	return Default().AnalyzeGroup(groupID, memberIDs, rec)
}

func deriveGroupStats(groupID string, memberCount int, rec Records) GroupStats {
	var (
		events, participants int
		dated, hourSum       int
		txns, fronted        int
		spent                float64
	)
	for i := range rec.Events {
		e := &rec.Events[i]
		if e.GroupID != groupID {
			continue
		}
		events++
		participants += len(e.Participants)
		if e.HasDate() {
			dated++
			hourSum += e.Date.Hour()
		}
	}
	for i := range rec.Transactions {
		t := &rec.Transactions[i]
		if t.GroupID != groupID {
			continue
		}
		txns++
		if t.IsPayerFronted() {
			fronted++
			spent += finite(t.TotalAmount)
		}
	}

	stats := GroupStats{
		MemberCount:    memberCount,
		TotalEvents:    events,
		TotalSpent:     round(spent, 2),
		MostActiveHour: defaultHour,
		Generosity:     round(ratio(fronted, txns), 2),
	}
	if events > 0 {
		stats.AvgEventCost = round(spent/float64(events), 2)
		stats.AvgGroupSize = round(float64(participants)/float64(events), 1)
	}
	if dated > 0 {
		stats.MostActiveHour = roundHour(float64(hourSum) / float64(dated))
	}
	return stats
}

func userNames(rec Records) map[string]string {
	names := make(map[string]string, len(rec.Users))
	for _, u := range rec.Users {
		names[u.ID] = u.Name
	}
	return names
}

func groupName(groupID string, rec Records) string {
	for _, g := range rec.Groups {
		if g.ID == groupID {
			return g.Name
		}
	}
	return ""
}
