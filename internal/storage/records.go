package storage

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/persona"
)

// LoadGroupRecords materializes everything the persona engine needs to
// analyze a group. Events, transactions and member users are fetched
// concurrently.
func LoadGroupRecords(ctx context.Context, s Store, groupID string) (*models.Group, persona.Records, error) {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, persona.Records{}, err
	}

	rec := persona.Records{Groups: []models.Group{*group}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := s.ListEventsByGroup(gctx, groupID)
		if err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}
		rec.Events = events
		return nil
	})
	g.Go(func() error {
		txns, err := s.ListTransactionsByGroup(gctx, groupID)
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		rec.Transactions = txns
		return nil
	})
	g.Go(func() error {
		users, err := s.ListUsers(gctx, group.Members)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		rec.Users = users
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, persona.Records{}, err
	}
	return group, rec, nil
}
