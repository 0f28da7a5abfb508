package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/personas/internal/models"
)

func createGroup(t *testing.T, env *testEnv, name string, members ...string) models.Group {
	t.Helper()

	resp, err := env.records.CreateGroup(context.Background(), connect.NewRequest(&CreateGroupRequest{
		Name:    name,
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group
}

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)

	group := createGroup(t, env, "Roommates", "alice", "bob", "alice", "carol")

	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
	if !reflect.DeepEqual(group.Members, []string{"alice", "bob", "carol"}) {
		t.Errorf("members: expected deduplicated list, got %v", group.Members)
	}

	_, err := env.records.CreateGroup(context.Background(), connect.NewRequest(&CreateGroupRequest{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument, got %v", err)
	}
}

func TestCreateUser(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp, err := env.records.CreateUser(ctx, connect.NewRequest(&CreateUserRequest{ID: "alice", Name: "Alice"}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if resp.Msg.User.ID != "alice" || resp.Msg.User.CreatedAt == 0 {
		t.Errorf("unexpected user: %+v", resp.Msg.User)
	}

	resp, err = env.records.CreateUser(ctx, connect.NewRequest(&CreateUserRequest{Name: "Bob"}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if resp.Msg.User.ID == "" {
		t.Error("expected generated user ID")
	}
}

func TestGetGroup(t *testing.T) {
	env := setupSeededServer(t)

	resp, err := env.records.GetGroup(context.Background(), connect.NewRequest(&GetGroupRequest{GroupID: "g1"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Flatmates" {
		t.Errorf("name: expected 'Flatmates', got '%s'", resp.Msg.Group.Name)
	}
	if len(resp.Msg.Events) != 7 || len(resp.Msg.Transactions) != 7 {
		t.Errorf("expected 7 events and 7 transactions, got %d and %d",
			len(resp.Msg.Events), len(resp.Msg.Transactions))
	}

	_, err = env.records.GetGroup(context.Background(), connect.NewRequest(&GetGroupRequest{GroupID: "missing"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}
}

func TestCreateEvent_AutoAddsAndInvalidates(t *testing.T) {
	env := setupSeededServer(t)
	ctx := context.Background()

	if _, err := env.personas.AnalyzeGroup(ctx, connect.NewRequest(&AnalyzeGroupRequest{GroupID: "g1"})); err != nil {
		t.Fatalf("AnalyzeGroup failed: %v", err)
	}
	if env.cache.len() != 1 {
		t.Fatalf("expected cached analysis, got %d entries", env.cache.len())
	}

	resp, err := env.records.CreateEvent(ctx, connect.NewRequest(&CreateEventRequest{Event: models.Event{
		GroupID:      "g1",
		Name:         "Karaoke",
		Date:         time.Date(2026, 2, 20, 22, 0, 0, 0, time.UTC),
		CreatorID:    "u5",
		Participants: []string{"u1", "u5"},
	}}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if resp.Msg.Event.ID == "" {
		t.Error("expected generated event ID")
	}
	if env.cache.len() != 0 {
		t.Errorf("expected cache to be invalidated, got %d entries", env.cache.len())
	}

	group, err := env.records.GetGroup(ctx, connect.NewRequest(&GetGroupRequest{GroupID: "g1"}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	want := []string{"u1", "u2", "u3", "u4", "u5"}
	if !reflect.DeepEqual(group.Msg.Group.Members, want) {
		t.Errorf("members: expected %v, got %v", want, group.Msg.Group.Members)
	}

	analysis, err := env.personas.AnalyzeGroup(ctx, connect.NewRequest(&AnalyzeGroupRequest{GroupID: "g1"}))
	if err != nil {
		t.Fatalf("AnalyzeGroup failed: %v", err)
	}
	if analysis.Msg.Result.Stats.TotalEvents != 8 || len(analysis.Msg.Result.Members) != 5 {
		t.Errorf("expected fresh analysis with 8 events and 5 members, got %+v", analysis.Msg.Result.Stats)
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.records.CreateEvent(ctx, connect.NewRequest(&CreateEventRequest{Event: models.Event{Name: "x"}}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected CodeInvalidArgument, got %v", err)
	}

	_, err = env.records.CreateEvent(ctx, connect.NewRequest(&CreateEventRequest{Event: models.Event{GroupID: "missing", Name: "x"}}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}
}

func TestCreateTransaction_EqualSplit(t *testing.T) {
	env := setupTestServer(t)
	group := createGroup(t, env, "Trip", "a", "b", "c")

	resp, err := env.records.CreateTransaction(context.Background(), connect.NewRequest(&CreateTransactionRequest{
		Transaction: models.Transaction{
			Type:         models.TransactionSplit,
			GroupID:      group.ID,
			PayerID:      "a",
			TotalAmount:  100,
			Participants: []string{"a", "b", "c"},
		},
	}))
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	splits := resp.Msg.Transaction.Splits
	if len(splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(splits))
	}
	wantOwed := []float64{33.34, 33.33, 33.33}
	for i, s := range splits {
		if s.Owed != wantOwed[i] {
			t.Errorf("split %s owed: expected %v, got %v", s.ParticipantID, wantOwed[i], s.Owed)
		}
	}
	if splits[0].Paid != 100 || splits[0].Net != 66.66 {
		t.Errorf("payer split: got %+v", splits[0])
	}
}

func TestCreateTransaction_EventTotal(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env, "Club", "a")

	resp, err := env.records.CreateTransaction(ctx, connect.NewRequest(&CreateTransactionRequest{
		Transaction: models.Transaction{
			Type:         models.TransactionEvent,
			GroupID:      group.ID,
			PayerID:      "d",
			Amount:       12.5,
			Participants: []string{"a", "d"},
		},
	}))
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if resp.Msg.Transaction.TotalAmount != 25 {
		t.Errorf("total: expected 25, got %v", resp.Msg.Transaction.TotalAmount)
	}

	got, err := env.records.GetGroup(ctx, connect.NewRequest(&GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if !reflect.DeepEqual(got.Msg.Group.Members, []string{"a", "d"}) {
		t.Errorf("expected payer auto-added, got %v", got.Msg.Group.Members)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	env := setupTestServer(t)
	group := createGroup(t, env, "Club", "a")

	tests := []struct {
		name string
		txn  models.Transaction
		want connect.Code
	}{
		{"unknown type", models.Transaction{Type: "gift", GroupID: group.ID, PayerID: "a"}, connect.CodeInvalidArgument},
		{"missing payer", models.Transaction{Type: models.TransactionP2P, GroupID: group.ID, PayeeID: "b"}, connect.CodeInvalidArgument},
		{"split without participants", models.Transaction{Type: models.TransactionSplit, GroupID: group.ID, PayerID: "a", TotalAmount: 10}, connect.CodeInvalidArgument},
		{"unknown group", models.Transaction{Type: models.TransactionP2P, GroupID: "missing", PayerID: "a", PayeeID: "b"}, connect.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.records.CreateTransaction(context.Background(), connect.NewRequest(&CreateTransactionRequest{Transaction: tt.txn}))
			if connect.CodeOf(err) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetGroupBalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	group := createGroup(t, env, "Trip", "a", "b", "c")

	txns := []models.Transaction{
		{Type: models.TransactionSplit, GroupID: group.ID, PayerID: "a", TotalAmount: 90, Participants: []string{"a", "b", "c"}},
		{Type: models.TransactionP2P, GroupID: group.ID, PayerID: "b", PayeeID: "a", TotalAmount: 30},
	}
	for _, txn := range txns {
		if _, err := env.records.CreateTransaction(ctx, connect.NewRequest(&CreateTransactionRequest{Transaction: txn})); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	resp, err := env.records.GetGroupBalances(ctx, connect.NewRequest(&GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}

	wantNet := map[string]float64{"a": 30, "b": 0, "c": -30}
	if len(resp.Msg.Balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(resp.Msg.Balances))
	}
	for _, b := range resp.Msg.Balances {
		if b.NetBalance != wantNet[b.UserID] {
			t.Errorf("%s net: expected %v, got %v", b.UserID, wantNet[b.UserID], b.NetBalance)
		}
	}
	if len(resp.Msg.Debts) != 1 {
		t.Fatalf("expected 1 debt, got %+v", resp.Msg.Debts)
	}
	if d := resp.Msg.Debts[0]; d.From != "c" || d.To != "a" || d.Amount != 30 {
		t.Errorf("unexpected debt: %+v", d)
	}

	_, err = env.records.GetGroupBalances(ctx, connect.NewRequest(&GetGroupBalancesRequest{GroupID: "missing"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", err)
	}
}
