package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/personas/internal/calculator"
	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/storage"
)

// RecordService writes the history persona analyses run over. Every write
// touching a group drops that group's cached analyses.
type RecordService struct {
	store storage.Store
	cache *AnalysisCache
}

// NewRecordService creates a new RecordService sharing cache with the
// PersonaService that reads from store. A nil cache disables invalidation.
func NewRecordService(store storage.Store, cache *AnalysisCache) *RecordService {
	if cache == nil {
		cache = &AnalysisCache{}
	}
	return &RecordService{store: store, cache: cache}
}

// findNewMembers returns people that are not already in existingMembers,
// without duplicates.
func findNewMembers(people, existingMembers []string) []string {
	memberSet := make(map[string]bool, len(existingMembers))
	for _, m := range existingMembers {
		memberSet[m] = true
	}
	var newOnes []string
	for _, p := range people {
		if p == "" || memberSet[p] {
			continue
		}
		memberSet[p] = true
		newOnes = append(newOnes, p)
	}
	return newOnes
}

// autoAddToGroup adds anyone referenced by a new record who is not yet a
// member of the group.
func (s *RecordService) autoAddToGroup(ctx context.Context, groupID string, people ...string) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Warn("autoAddToGroup: failed to get group", "group_id", groupID, "error", err)
		return
	}

	newMembers := findNewMembers(people, group.Members)
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, groupID, newMembers); err != nil {
		slog.Error("autoAddToGroup: failed to add members", "group_id", groupID, "error", err)
		return
	}
	slog.Info("Auto-added members to group", "group_id", groupID, "new_members", newMembers)
}

// CreateUser registers a user. A caller-supplied ID is kept.
func (s *RecordService) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	slog.Info("CreateUser request received", "user_id", req.Msg.ID, "name", req.Msg.Name)

	if req.Msg.Name == "" {
		return nil, invalidArgument(errMissingName)
	}
	user := &models.User{ID: req.Msg.ID, Name: req.Msg.Name}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("User created", "user_id", user.ID)
	return connect.NewResponse(&CreateUserResponse{User: *user}), nil
}

// CreateGroup creates a new group.
func (s *RecordService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	if req.Msg.Name == "" {
		return nil, invalidArgument(errMissingName)
	}
	group := &models.Group{
		Name:    req.Msg.Name,
		Members: findNewMembers(req.Msg.Members, nil),
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&CreateGroupResponse{Group: *group}), nil
}

// GetGroup retrieves a group with its events and transactions.
func (s *RecordService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument(errMissingGroup)
	}
	group, rec, err := storage.LoadGroupRecords(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)
	return connect.NewResponse(&GetGroupResponse{
		Group:        *group,
		Events:       rec.Events,
		Transactions: rec.Transactions,
	}), nil
}

// CreateEvent records an event. Its creator and participants join the group.
func (s *RecordService) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error) {
	event := req.Msg.Event
	slog.Info("CreateEvent request received",
		"group_id", event.GroupID,
		"name", event.Name,
		"participants_count", len(event.Participants),
	)

	if event.GroupID == "" {
		return nil, invalidArgument(errMissingGroup)
	}
	if event.Name == "" {
		return nil, invalidArgument(errMissingName)
	}
	if err := s.store.CreateEvent(ctx, &event); err != nil {
		slog.Error("CreateEvent failed", "group_id", event.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.autoAddToGroup(ctx, event.GroupID, append([]string{event.CreatorID}, event.Participants...)...)
	s.cache.invalidate(event.GroupID)

	slog.Info("Event created", "event_id", event.ID, "group_id", event.GroupID)
	return connect.NewResponse(&CreateEventResponse{Event: event}), nil
}

// CreateTransaction records money moving inside a group. A split without
// explicit splits is divided equally among its participants, and an event
// charge without a total is priced at Amount per participant.
func (s *RecordService) CreateTransaction(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error) {
	txn := req.Msg.Transaction
	slog.Info("CreateTransaction request received",
		"group_id", txn.GroupID,
		"type", txn.Type,
		"total", txn.TotalAmount,
	)

	if err := models.ValidateTransaction(&txn); err != nil {
		return nil, invalidArgument(err)
	}

	switch txn.Type {
	case models.TransactionSplit:
		if len(txn.Splits) == 0 {
			splits, err := calculator.EqualSplits(txn.PayerID, txn.TotalAmount, txn.Participants)
			if err != nil {
				return nil, invalidArgument(err)
			}
			txn.Splits = splits
		}
	case models.TransactionEvent:
		if txn.TotalAmount == 0 && txn.Amount > 0 {
			txn.TotalAmount = decimal.NewFromFloat(txn.Amount).
				Mul(decimal.NewFromInt(int64(len(txn.Participants)))).
				Round(2).InexactFloat64()
		}
	}

	if err := s.store.CreateTransaction(ctx, &txn); err != nil {
		slog.Error("CreateTransaction failed", "group_id", txn.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	people := append([]string{txn.PayerID, txn.PayeeID}, txn.Participants...)
	s.autoAddToGroup(ctx, txn.GroupID, people...)
	s.cache.invalidate(txn.GroupID)

	slog.Info("Transaction created", "transaction_id", txn.ID, "group_id", txn.GroupID)
	return connect.NewResponse(&CreateTransactionResponse{Transaction: txn}), nil
}

// GetGroupBalances calculates balances across all transactions in a group.
func (s *RecordService) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument(errMissingGroup)
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("GetGroupBalances failed - group not found", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	txns, err := s.store.ListTransactionsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not list transactions", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	balances, debts := calculator.CalculateGroupBalances(txns)

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"members_count", len(balances),
		"debts_count", len(debts),
	)
	return connect.NewResponse(&GetGroupBalancesResponse{Balances: balances, Debts: debts}), nil
}
