// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/personas/internal/models"
)

// ErrNotFound is returned (wrapped) when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidReference is returned (wrapped) when a record points at another
// record that breaks an invariant, e.g. an event from a different group.
var ErrInvalidReference = errors.New("invalid reference")

// Store defines the interface for record storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are filled when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user, including the groups they belong to.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListUsers retrieves the users with the given IDs. Unknown IDs are
	// omitted from the result.
	ListUsers(ctx context.Context, userIDs []string) ([]models.User, error)

	// CreateGroup persists a new group and its members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with members in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends members to a group, ignoring existing ones.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// CreateEvent persists a new event. The group must exist.
	CreateEvent(ctx context.Context, event *models.Event) error

	// ListEventsByGroup retrieves a group's events ordered by instant, undated first.
	ListEventsByGroup(ctx context.Context, groupID string) ([]models.Event, error)

	// CreateTransaction persists a new transaction. The group must exist and
	// a linked event must belong to the same group.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// GetTransaction retrieves a transaction with its participants and splits.
	GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error)

	// ListTransactionsByGroup retrieves a group's transactions in creation order.
	ListTransactionsByGroup(ctx context.Context, groupID string) ([]models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
