// Package share signs persona results into tokens that can be handed out
// as share cards and verified later without touching the store.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmynk/personas/internal/persona"
)

var ErrInvalidToken = errors.New("invalid or expired share token")

// Kind tells whether a card describes a user or a group.
type Kind string

const (
	KindUser  Kind = "user"
	KindGroup Kind = "group"
)

// Card is the public content of a share token.
type Card struct {
	Kind  Kind   `json:"kind"`
	Key   string `json:"persona"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	// Similarity is set for user cards, Percentage for group cards.
	Similarity float64 `json:"similarity,omitempty"`
	Percentage int     `json:"percentage,omitempty"`
}

// Claims are the JWT claims of a share token. Subject holds the user or
// group ID.
type Claims struct {
	Card
	jwt.RegisteredClaims
}

// Issuer signs and verifies share tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// UserCard summarizes an individual profile.
func UserCard(p persona.Profile) Card {
	return Card{
		Kind:       KindUser,
		Key:        p.Key,
		Name:       p.Name,
		Emoji:      p.Emoji,
		Similarity: p.Match.Similarity,
	}
}

// GroupCard summarizes a group analysis with the dominant persona's share
// of members.
func GroupCard(r persona.GroupResult) Card {
	c := Card{
		Kind:  KindGroup,
		Key:   r.Dominant.Key,
		Name:  r.Dominant.Name,
		Emoji: r.Dominant.Emoji,
	}
	for _, d := range r.Distribution {
		if d.Key == r.Dominant.Key {
			c.Percentage = d.Percentage
			break
		}
	}
	return c
}

// Issue signs card for subject.
func (i *Issuer) Issue(subject string, card Card) (string, *Claims, error) {
	now := i.now()
	claims := &Claims{
		Card: card,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses a share token and returns its claims if the signature and
// validity window check out.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
