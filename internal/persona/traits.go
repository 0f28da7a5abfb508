package persona

// Trait identifies one dimension of a Fingerprint.
type Trait int

const (
	GroupSize Trait = iota
	Socialness
	BudgetLevel
	Generosity
	PaymentSpeed
	ActivityLevel
	TimePreference

	numTraits
)

// Trait values. Each vocabulary is ordered; similarity is measured by the
// distance between positions.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"

	Introvert = "introvert"
	Ambivert  = "ambivert"
	Extrovert = "extrovert"

	Budget   = "budget"
	Moderate = "moderate"
	Premium  = "premium"

	Low    = "low"
	Medium = "medium"
	High   = "high"

	Slow = "slow"
	Fast = "fast"

	Morning   = "morning"
	Afternoon = "afternoon"
	Evening   = "evening"
	Night     = "night"
)

type traitSpec struct {
	name   string
	vocab  []string
	weight float64
}

var traitSpecs = [numTraits]traitSpec{
	GroupSize:      {"groupSize", []string{SizeSmall, SizeMedium, SizeLarge}, 1.5},
	Socialness:     {"socialness", []string{Introvert, Ambivert, Extrovert}, 2.0},
	BudgetLevel:    {"budgetLevel", []string{Budget, Moderate, Premium}, 1.2},
	Generosity:     {"generosity", []string{Low, Medium, High}, 1.8},
	PaymentSpeed:   {"paymentSpeed", []string{Slow, Medium, Fast}, 1.0},
	ActivityLevel:  {"activityLevel", []string{Low, Medium, High}, 1.5},
	TimePreference: {"timePreference", []string{Morning, Afternoon, Evening, Night}, 0.8},
}

// Traits returns every trait in canonical order.
func Traits() []Trait {
	out := make([]Trait, numTraits)
	for i := range out {
		out[i] = Trait(i)
	}
	return out
}

func (t Trait) valid() bool { return t >= 0 && t < numTraits }

// String returns the camelCase name of the trait, e.g. "groupSize".
func (t Trait) String() string {
	if !t.valid() {
		return "unknown"
	}
	return traitSpecs[t].name
}

// Vocabulary returns the ordered values the trait can take.
func (t Trait) Vocabulary() []string {
	if !t.valid() {
		return nil
	}
	return append([]string(nil), traitSpecs[t].vocab...)
}

// Weight returns the trait's weight in the similarity score.
func (t Trait) Weight() float64 {
	if !t.valid() {
		return 0
	}
	return traitSpecs[t].weight
}

// index returns the position of value in the trait's vocabulary, or -1.
func (t Trait) index(value string) int {
	if !t.valid() {
		return -1
	}
	for i, v := range traitSpecs[t].vocab {
		if v == value {
			return i
		}
	}
	return -1
}

// Fingerprint is the seven-trait categorical description of a user's
// (or group's) behavior.
type Fingerprint struct {
	GroupSize      string `json:"groupSize" yaml:"groupSize"`
	Socialness     string `json:"socialness" yaml:"socialness"`
	BudgetLevel    string `json:"budgetLevel" yaml:"budgetLevel"`
	Generosity     string `json:"generosity" yaml:"generosity"`
	PaymentSpeed   string `json:"paymentSpeed" yaml:"paymentSpeed"`
	ActivityLevel  string `json:"activityLevel" yaml:"activityLevel"`
	TimePreference string `json:"timePreference" yaml:"timePreference"`
}

// Value returns the fingerprint's value for t.
func (f Fingerprint) Value(t Trait) string {
	switch t {
	case GroupSize:
		return f.GroupSize
	case Socialness:
		return f.Socialness
	case BudgetLevel:
		return f.BudgetLevel
	case Generosity:
		return f.Generosity
	case PaymentSpeed:
		return f.PaymentSpeed
	case ActivityLevel:
		return f.ActivityLevel
	case TimePreference:
		return f.TimePreference
	}
	return ""
}

// Bucketing. Cutpoints are exact; comparisons are strict where noted so that
// results match the existing app value for value.

func groupSizeBucket(avgParticipants float64) string {
	switch {
	case avgParticipants <= 3:
		return SizeSmall
	case avgParticipants <= 6:
		return SizeMedium
	default:
		return SizeLarge
	}
}

func socialnessBucket(createRate float64) string {
	switch {
	case createRate > 0.6:
		return Extrovert
	case createRate > 0.3:
		return Ambivert
	default:
		return Introvert
	}
}

func budgetBucket(avgSpend float64) string {
	switch {
	case avgSpend < 20:
		return Budget
	case avgSpend < 50:
		return Moderate
	default:
		return Premium
	}
}

func generosityBucket(frontedRatio float64) string {
	switch {
	case frontedRatio > 0.5:
		return High
	case frontedRatio > 0.25:
		return Medium
	default:
		return Low
	}
}

func paymentSpeedBucket(p2pRatio float64) string {
	switch {
	case p2pRatio > 0.4:
		return Fast
	case p2pRatio > 0.2:
		return Medium
	default:
		return Slow
	}
}

func activityBucket(eventsPerMonth float64) string {
	switch {
	case eventsPerMonth > 8:
		return High
	case eventsPerMonth > 3:
		return Medium
	default:
		return Low
	}
}

func timeBucket(hour float64) string {
	switch {
	case hour < 11:
		return Morning
	case hour < 16:
		return Afternoon
	case hour < 21:
		return Evening
	default:
		return Night
	}
}
