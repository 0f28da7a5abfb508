package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// NewPersonaServiceHandler builds an HTTP handler serving every
// PersonaService procedure. It returns the path to mount it on.
func NewPersonaServiceHandler(svc *PersonaService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ExtractFeaturesProcedure, connect.NewUnaryHandler(ExtractFeaturesProcedure, svc.ExtractFeatures, opts...))
	mux.Handle(MatchPersonaProcedure, connect.NewUnaryHandler(MatchPersonaProcedure, svc.MatchPersona, opts...))
	mux.Handle(GetPersonaDetailsProcedure, connect.NewUnaryHandler(GetPersonaDetailsProcedure, svc.GetPersonaDetails, opts...))
	mux.Handle(ListPersonasProcedure, connect.NewUnaryHandler(ListPersonasProcedure, svc.ListPersonas, opts...))
	mux.Handle(AnalyzeUserProcedure, connect.NewUnaryHandler(AnalyzeUserProcedure, svc.AnalyzeUser, opts...))
	mux.Handle(AnalyzeGroupProcedure, connect.NewUnaryHandler(AnalyzeGroupProcedure, svc.AnalyzeGroup, opts...))
	mux.Handle(SharePersonaProcedure, connect.NewUnaryHandler(SharePersonaProcedure, svc.SharePersona, opts...))
	mux.Handle(VerifyShareProcedure, connect.NewUnaryHandler(VerifyShareProcedure, svc.VerifyShare, opts...))
	return "/" + PersonaServiceName + "/", mux
}

// NewRecordServiceHandler builds an HTTP handler serving every
// RecordService procedure. It returns the path to mount it on.
func NewRecordServiceHandler(svc *RecordService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CreateUserProcedure, connect.NewUnaryHandler(CreateUserProcedure, svc.CreateUser, opts...))
	mux.Handle(CreateGroupProcedure, connect.NewUnaryHandler(CreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(GetGroupProcedure, connect.NewUnaryHandler(GetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(CreateEventProcedure, connect.NewUnaryHandler(CreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(CreateTransactionProcedure, connect.NewUnaryHandler(CreateTransactionProcedure, svc.CreateTransaction, opts...))
	mux.Handle(GetGroupBalancesProcedure, connect.NewUnaryHandler(GetGroupBalancesProcedure, svc.GetGroupBalances, opts...))
	return "/" + RecordServiceName + "/", mux
}

// PersonaServiceClient calls a remote PersonaService.
type PersonaServiceClient struct {
	extractFeatures   *connect.Client[ExtractFeaturesRequest, ExtractFeaturesResponse]
	matchPersona      *connect.Client[MatchPersonaRequest, MatchPersonaResponse]
	getPersonaDetails *connect.Client[GetPersonaDetailsRequest, GetPersonaDetailsResponse]
	listPersonas      *connect.Client[ListPersonasRequest, ListPersonasResponse]
	analyzeUser       *connect.Client[AnalyzeUserRequest, AnalyzeUserResponse]
	analyzeGroup      *connect.Client[AnalyzeGroupRequest, AnalyzeGroupResponse]
	sharePersona      *connect.Client[SharePersonaRequest, SharePersonaResponse]
	verifyShare       *connect.Client[VerifyShareRequest, VerifyShareResponse]
}

// NewPersonaServiceClient constructs a client for the server at baseURL.
func NewPersonaServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PersonaServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &PersonaServiceClient{
		extractFeatures:   connect.NewClient[ExtractFeaturesRequest, ExtractFeaturesResponse](httpClient, baseURL+ExtractFeaturesProcedure, opts...),
		matchPersona:      connect.NewClient[MatchPersonaRequest, MatchPersonaResponse](httpClient, baseURL+MatchPersonaProcedure, opts...),
		getPersonaDetails: connect.NewClient[GetPersonaDetailsRequest, GetPersonaDetailsResponse](httpClient, baseURL+GetPersonaDetailsProcedure, opts...),
		listPersonas:      connect.NewClient[ListPersonasRequest, ListPersonasResponse](httpClient, baseURL+ListPersonasProcedure, opts...),
		analyzeUser:       connect.NewClient[AnalyzeUserRequest, AnalyzeUserResponse](httpClient, baseURL+AnalyzeUserProcedure, opts...),
		analyzeGroup:      connect.NewClient[AnalyzeGroupRequest, AnalyzeGroupResponse](httpClient, baseURL+AnalyzeGroupProcedure, opts...),
		sharePersona:      connect.NewClient[SharePersonaRequest, SharePersonaResponse](httpClient, baseURL+SharePersonaProcedure, opts...),
		verifyShare:       connect.NewClient[VerifyShareRequest, VerifyShareResponse](httpClient, baseURL+VerifyShareProcedure, opts...),
	}
}

func (c *PersonaServiceClient) ExtractFeatures(ctx context.Context, req *connect.Request[ExtractFeaturesRequest]) (*connect.Response[ExtractFeaturesResponse], error) {
	return c.extractFeatures.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) MatchPersona(ctx context.Context, req *connect.Request[MatchPersonaRequest]) (*connect.Response[MatchPersonaResponse], error) {
	return c.matchPersona.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) GetPersonaDetails(ctx context.Context, req *connect.Request[GetPersonaDetailsRequest]) (*connect.Response[GetPersonaDetailsResponse], error) {
	return c.getPersonaDetails.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) ListPersonas(ctx context.Context, req *connect.Request[ListPersonasRequest]) (*connect.Response[ListPersonasResponse], error) {
	return c.listPersonas.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) AnalyzeUser(ctx context.Context, req *connect.Request[AnalyzeUserRequest]) (*connect.Response[AnalyzeUserResponse], error) {
	return c.analyzeUser.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) AnalyzeGroup(ctx context.Context, req *connect.Request[AnalyzeGroupRequest]) (*connect.Response[AnalyzeGroupResponse], error) {
	return c.analyzeGroup.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) SharePersona(ctx context.Context, req *connect.Request[SharePersonaRequest]) (*connect.Response[SharePersonaResponse], error) {
	return c.sharePersona.CallUnary(ctx, req)
}

func (c *PersonaServiceClient) VerifyShare(ctx context.Context, req *connect.Request[VerifyShareRequest]) (*connect.Response[VerifyShareResponse], error) {
	return c.verifyShare.CallUnary(ctx, req)
}

// RecordServiceClient calls a remote RecordService.
type RecordServiceClient struct {
	createUser        *connect.Client[CreateUserRequest, CreateUserResponse]
	createGroup       *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup          *connect.Client[GetGroupRequest, GetGroupResponse]
	createEvent       *connect.Client[CreateEventRequest, CreateEventResponse]
	createTransaction *connect.Client[CreateTransactionRequest, CreateTransactionResponse]
	getGroupBalances  *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
}

// NewRecordServiceClient constructs a client for the server at baseURL.
func NewRecordServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RecordServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &RecordServiceClient{
		createUser:        connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+CreateUserProcedure, opts...),
		createGroup:       connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		getGroup:          connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		createEvent:       connect.NewClient[CreateEventRequest, CreateEventResponse](httpClient, baseURL+CreateEventProcedure, opts...),
		createTransaction: connect.NewClient[CreateTransactionRequest, CreateTransactionResponse](httpClient, baseURL+CreateTransactionProcedure, opts...),
		getGroupBalances:  connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+GetGroupBalancesProcedure, opts...),
	}
}

func (c *RecordServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *RecordServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *RecordServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *RecordServiceClient) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *RecordServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[CreateTransactionRequest]) (*connect.Response[CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *RecordServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}
