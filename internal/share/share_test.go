package share

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/personas/internal/fixture"
	"github.com/mmynk/personas/internal/persona"
)

func TestIssueVerifyUserCard(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	profile := persona.AnalyzeUserProfile("u2", fixture.Sample().Records())

	token, issued, err := issuer.Issue("u2", UserCard(profile))
	require.NoError(t, err)
	assert.Equal(t, "u2", issued.Subject)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u2", claims.Subject)
	assert.Equal(t, KindUser, claims.Kind)
	assert.Equal(t, "bigSpender", claims.Key)
	assert.Equal(t, "💸", claims.Emoji)
	assert.InDelta(t, 0.8044, claims.Similarity, 1e-4)
}

func TestGroupCard(t *testing.T) {
	f := fixture.Sample()
	result := persona.AnalyzeGroupPersona("g1", f.Groups[0].Members, f.Records())

	card := GroupCard(result)
	assert.Equal(t, KindGroup, card.Kind)
	assert.Equal(t, "generousHost", card.Key)
	assert.Equal(t, "The Dinner Party Circle", card.Name)
	assert.Equal(t, 25, card.Percentage)
	assert.Zero(t, card.Similarity)
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, _, err := issuer.Issue("g1", Card{Kind: KindGroup, Key: "organizer"})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		parts[1] = parts[1][:len(parts[1])-2] + "AA"
		_, err := issuer.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewIssuer("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
