package service

import (
	"time"

	"github.com/mmynk/personas/internal/calculator"
	"github.com/mmynk/personas/internal/models"
	"github.com/mmynk/personas/internal/persona"
	"github.com/mmynk/personas/internal/share"
)

const (
	PersonaServiceName = "personas.v1.PersonaService"
	RecordServiceName  = "personas.v1.RecordService"
)

// PersonaService procedures.
const (
	ExtractFeaturesProcedure   = "/" + PersonaServiceName + "/ExtractFeatures"
	MatchPersonaProcedure      = "/" + PersonaServiceName + "/MatchPersona"
	GetPersonaDetailsProcedure = "/" + PersonaServiceName + "/GetPersonaDetails"
	ListPersonasProcedure      = "/" + PersonaServiceName + "/ListPersonas"
	AnalyzeUserProcedure       = "/" + PersonaServiceName + "/AnalyzeUser"
	AnalyzeGroupProcedure      = "/" + PersonaServiceName + "/AnalyzeGroup"
	SharePersonaProcedure      = "/" + PersonaServiceName + "/SharePersona"
	VerifyShareProcedure       = "/" + PersonaServiceName + "/VerifyShare"
)

// RecordService procedures.
const (
	CreateUserProcedure        = "/" + RecordServiceName + "/CreateUser"
	CreateGroupProcedure       = "/" + RecordServiceName + "/CreateGroup"
	GetGroupProcedure          = "/" + RecordServiceName + "/GetGroup"
	CreateEventProcedure       = "/" + RecordServiceName + "/CreateEvent"
	CreateTransactionProcedure = "/" + RecordServiceName + "/CreateTransaction"
	GetGroupBalancesProcedure  = "/" + RecordServiceName + "/GetGroupBalances"
)

// Analysis requests take records in one of two ways: inline Records, or a
// GroupID whose stored history is loaded. A user request with neither
// analyzes the union of the user's groups.

type ExtractFeaturesRequest struct {
	UserID  string           `json:"userId"`
	GroupID string           `json:"groupId,omitempty"`
	Records *persona.Records `json:"records,omitempty"`
}

type ExtractFeaturesResponse struct {
	Fingerprint persona.Fingerprint `json:"fingerprint"`
}

type MatchPersonaRequest struct {
	Fingerprint persona.Fingerprint `json:"fingerprint"`
}

type MatchPersonaResponse struct {
	Match persona.MatchResult `json:"match"`
}

type GetPersonaDetailsRequest struct {
	Key string `json:"key"`
	// Group selects the collective wording.
	Group bool `json:"group,omitempty"`
}

type GetPersonaDetailsResponse struct {
	Key     string          `json:"key"`
	Details persona.Details `json:"details"`
}

type ListPersonasRequest struct{}

type PersonaSummary struct {
	Key         string              `json:"key"`
	Name        string              `json:"name"`
	Emoji       string              `json:"emoji"`
	Description string              `json:"description"`
	Fingerprint persona.Fingerprint `json:"fingerprint"`
}

type ListPersonasResponse struct {
	Personas []PersonaSummary `json:"personas"`
}

type AnalyzeUserRequest struct {
	UserID  string           `json:"userId"`
	GroupID string           `json:"groupId,omitempty"`
	Records *persona.Records `json:"records,omitempty"`
}

type AnalyzeUserResponse struct {
	Profile persona.Profile `json:"profile"`
}

type AnalyzeGroupRequest struct {
	GroupID string           `json:"groupId"`
	Records *persona.Records `json:"records,omitempty"`
	// MemberIDs overrides the member list of inline Records. Setting it
	// without Records is rejected.
	MemberIDs []string `json:"memberIds,omitempty"`
}

type AnalyzeGroupResponse struct {
	Result persona.GroupResult `json:"result"`
}

// SharePersonaRequest shares a user's persona when UserID is set,
// otherwise the group's dominant persona.
type SharePersonaRequest struct {
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

type SharePersonaResponse struct {
	Token     string     `json:"token"`
	Card      share.Card `json:"card"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type VerifyShareRequest struct {
	Token string `json:"token"`
}

type VerifyShareResponse struct {
	Subject   string     `json:"subject"`
	Card      share.Card `json:"card"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type CreateUserRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type CreateUserResponse struct {
	User models.User `json:"user"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group        models.Group         `json:"group"`
	Events       []models.Event       `json:"events"`
	Transactions []models.Transaction `json:"transactions"`
}

type CreateEventRequest struct {
	Event models.Event `json:"event"`
}

type CreateEventResponse struct {
	Event models.Event `json:"event"`
}

type CreateTransactionRequest struct {
	Transaction models.Transaction `json:"transaction"`
}

type CreateTransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	Balances []calculator.MemberBalance `json:"balances"`
	Debts    []calculator.DebtEdge      `json:"debts"`
}

// Getters let interceptors tag log lines with the records a call touches.

func (r *ExtractFeaturesRequest) GetUserID() string  { return r.UserID }
func (r *ExtractFeaturesRequest) GetGroupID() string { return r.GroupID }
func (r *AnalyzeUserRequest) GetUserID() string      { return r.UserID }
func (r *AnalyzeUserRequest) GetGroupID() string     { return r.GroupID }
func (r *AnalyzeGroupRequest) GetGroupID() string    { return r.GroupID }
func (r *SharePersonaRequest) GetUserID() string     { return r.UserID }
func (r *SharePersonaRequest) GetGroupID() string    { return r.GroupID }
func (r *GetGroupRequest) GetGroupID() string        { return r.GroupID }
func (r *CreateEventRequest) GetGroupID() string     { return r.Event.GroupID }
func (r *CreateTransactionRequest) GetGroupID() string {
	return r.Transaction.GroupID
}
func (r *GetGroupBalancesRequest) GetGroupID() string { return r.GroupID }
