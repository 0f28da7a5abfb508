package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 12, c.Len())

	keys := make([]string, 0, c.Len())
	seen := make(map[Fingerprint]string)
	for _, a := range c.Archetypes() {
		keys = append(keys, a.Key)
		assert.NotEmpty(t, a.Emoji, a.Key)
		assert.NotEmpty(t, a.Description, a.Key)
		assert.NotEmpty(t, a.Traits, a.Key)
		require.NotNil(t, a.Group, a.Key)
		if other, dup := seen[a.Fingerprint]; dup {
			t.Errorf("%s and %s share a fingerprint", a.Key, other)
		}
		seen[a.Fingerprint] = a.Key
	}
	assert.Equal(t, []string{
		"partyAnimal", "budgetHawk", "socialButterfly", "organizer",
		"bigSpender", "homebody", "earlyBird", "nightOwl",
		"generousHost", "adventurer", "lateSettler", "brunchLover",
	}, keys)

	hawk, ok := c.Lookup("budgetHawk")
	require.True(t, ok)
	assert.Equal(t, Fingerprint{
		GroupSize:      SizeSmall,
		Socialness:     Introvert,
		BudgetLevel:    Budget,
		Generosity:     Low,
		PaymentSpeed:   Fast,
		ActivityLevel:  Low,
		TimePreference: Afternoon,
	}, hawk.Fingerprint)
}

func TestDetails(t *testing.T) {
	d := GetPersonaDetails("partyAnimal")
	assert.Equal(t, "🎉", d.Emoji)
	assert.Equal(t, "Party Animal", d.Name)
	assert.Len(t, d.Traits, 3)

	g := Default().GroupDetails("partyAnimal")
	assert.Equal(t, "The Party Crew", g.Name)
	assert.Equal(t, "🎉", g.Emoji)
	assert.NotEqual(t, d.Description, g.Description)

	// Callers cannot mutate the catalog through returned slices.
	d.Traits[0] = "changed"
	assert.NotEqual(t, "changed", GetPersonaDetails("partyAnimal").Traits[0])
}

func TestDetailsUnknown(t *testing.T) {
	for _, d := range []Details{GetPersonaDetails("nope"), Default().GroupDetails("nope")} {
		assert.Equal(t, "❓", d.Emoji)
		assert.Equal(t, "Unknown persona type", d.Description)
		assert.NotNil(t, d.Traits)
		assert.Empty(t, d.Traits)
	}
}

const twoPersonaCatalog = `
personas:
  - key: saver
    name: Saver
    emoji: "💰"
    fingerprint: {groupSize: small, socialness: introvert, budgetLevel: budget, generosity: low, paymentSpeed: fast, activityLevel: low, timePreference: morning}
    description: Saves.
    traits: [thrifty]
  - key: host
    name: Host
    emoji: "🍽"
    fingerprint: {groupSize: large, socialness: extrovert, budgetLevel: premium, generosity: high, paymentSpeed: slow, activityLevel: high, timePreference: night}
    description: Hosts.
    traits: [generous]
    group:
      description: Hosts together.
      traits: [shared tables]
`

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(twoPersonaCatalog))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	// No group wording: falls back to the individual table.
	g := c.GroupDetails("saver")
	assert.Equal(t, "Saves.", g.Description)
	assert.Equal(t, []string{"thrifty"}, g.Traits)

	// Group wording without a name keeps the individual name.
	h := c.GroupDetails("host")
	assert.Equal(t, "Host", h.Name)
	assert.Equal(t, "Hosts together.", h.Description)

	m := c.Match(Fingerprint{})
	assert.Len(t, m.Top, 2)
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "personas: []", "no personas"},
		{"bad value", strings.Replace(twoPersonaCatalog, "budgetLevel: budget", "budgetLevel: cheap", 1), "budgetLevel"},
		{"duplicate", strings.Replace(twoPersonaCatalog, "key: host", "key: saver", 1), "duplicate"},
		{"reserved", strings.Replace(twoPersonaCatalog, "key: host", "key: unknown", 1), "reserved"},
		{"unknown field", twoPersonaCatalog + "    colour: red\n", "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
