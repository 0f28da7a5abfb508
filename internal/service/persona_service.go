package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/personas/internal/persona"
	"github.com/mmynk/personas/internal/share"
	"github.com/mmynk/personas/internal/storage"
)

// PersonaServiceConfig carries the optional collaborators of a
// PersonaService. Zero values fall back to the embedded catalog, an
// unregistered metrics set and no caching; without an Issuer share
// procedures fail with CodeUnimplemented.
type PersonaServiceConfig struct {
	Catalog *persona.Catalog
	Issuer  *share.Issuer
	Metrics *Metrics
	Cache   *AnalysisCache
}

// PersonaService serves persona analyses over stored or inline records.
type PersonaService struct {
	store   storage.Store
	catalog *persona.Catalog
	issuer  *share.Issuer
	metrics *Metrics
	cache   *AnalysisCache
}

// NewPersonaService creates a new PersonaService with the given storage backend.
func NewPersonaService(store storage.Store, cfg PersonaServiceConfig) *PersonaService {
	s := &PersonaService{
		store:   store,
		catalog: cfg.Catalog,
		issuer:  cfg.Issuer,
		metrics: cfg.Metrics,
		cache:   cfg.Cache,
	}
	if s.catalog == nil {
		s.catalog = persona.Default()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	if s.cache == nil {
		s.cache = &AnalysisCache{}
	}
	return s
}

// ExtractFeatures returns a user's trait fingerprint.
func (s *PersonaService) ExtractFeatures(ctx context.Context, req *connect.Request[ExtractFeaturesRequest]) (*connect.Response[ExtractFeaturesResponse], error) {
	slog.Info("ExtractFeatures request received", "user_id", req.Msg.UserID, "group_id", req.Msg.GroupID)

	if req.Msg.UserID == "" {
		return nil, invalidArgument(errMissingUser)
	}
	rec, err := s.records(ctx, req.Msg.UserID, req.Msg.GroupID, req.Msg.Records)
	if err != nil {
		slog.Error("ExtractFeatures failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ExtractFeaturesResponse{
		Fingerprint: persona.Extract(req.Msg.UserID, rec),
	}), nil
}

// MatchPersona ranks the catalog against a fingerprint.
func (s *PersonaService) MatchPersona(ctx context.Context, req *connect.Request[MatchPersonaRequest]) (*connect.Response[MatchPersonaResponse], error) {
	m := s.catalog.Match(req.Msg.Fingerprint)
	slog.Info("MatchPersona successful", "persona", m.Key, "similarity", m.Similarity)
	return connect.NewResponse(&MatchPersonaResponse{Match: m}), nil
}

// GetPersonaDetails returns display details, or the unknown placeholder for
// keys outside the catalog.
func (s *PersonaService) GetPersonaDetails(ctx context.Context, req *connect.Request[GetPersonaDetailsRequest]) (*connect.Response[GetPersonaDetailsResponse], error) {
	d := s.catalog.Details(req.Msg.Key)
	if req.Msg.Group {
		d = s.catalog.GroupDetails(req.Msg.Key)
	}
	return connect.NewResponse(&GetPersonaDetailsResponse{Key: req.Msg.Key, Details: d}), nil
}

// ListPersonas returns the catalog in tie-breaking order.
func (s *PersonaService) ListPersonas(ctx context.Context, req *connect.Request[ListPersonasRequest]) (*connect.Response[ListPersonasResponse], error) {
	archetypes := s.catalog.Archetypes()
	out := make([]PersonaSummary, len(archetypes))
	for i, a := range archetypes {
		out[i] = PersonaSummary{
			Key:         a.Key,
			Name:        a.Name,
			Emoji:       a.Emoji,
			Description: a.Description,
			Fingerprint: a.Fingerprint,
		}
	}
	return connect.NewResponse(&ListPersonasResponse{Personas: out}), nil
}

// AnalyzeUser builds a user's full persona profile.
func (s *PersonaService) AnalyzeUser(ctx context.Context, req *connect.Request[AnalyzeUserRequest]) (*connect.Response[AnalyzeUserResponse], error) {
	slog.Info("AnalyzeUser request received", "user_id", req.Msg.UserID, "group_id", req.Msg.GroupID)

	if req.Msg.UserID == "" {
		return nil, invalidArgument(errMissingUser)
	}
	profile, err := s.analyzeUser(ctx, req.Msg.UserID, req.Msg.GroupID, req.Msg.Records)
	if err != nil {
		slog.Error("AnalyzeUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("AnalyzeUser successful", "user_id", profile.UserID, "persona", profile.Key)
	return connect.NewResponse(&AnalyzeUserResponse{Profile: profile}), nil
}

// AnalyzeGroup classifies every member of a group.
func (s *PersonaService) AnalyzeGroup(ctx context.Context, req *connect.Request[AnalyzeGroupRequest]) (*connect.Response[AnalyzeGroupResponse], error) {
	slog.Info("AnalyzeGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument(errMissingGroup)
	}
	if len(req.Msg.MemberIDs) > 0 && req.Msg.Records == nil {
		return nil, invalidArgument(errMembersWithoutRecords)
	}
	result, err := s.analyzeGroup(ctx, req.Msg.GroupID, req.Msg.MemberIDs, req.Msg.Records)
	if err != nil {
		slog.Error("AnalyzeGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("AnalyzeGroup successful",
		"group_id", result.GroupID,
		"persona", result.Dominant.Key,
		"members_count", len(result.Members),
	)
	return connect.NewResponse(&AnalyzeGroupResponse{Result: result}), nil
}

// SharePersona issues a signed share card for a user or a group.
func (s *PersonaService) SharePersona(ctx context.Context, req *connect.Request[SharePersonaRequest]) (*connect.Response[SharePersonaResponse], error) {
	slog.Info("SharePersona request received", "user_id", req.Msg.UserID, "group_id", req.Msg.GroupID)

	if s.issuer == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharing is not configured"))
	}

	var (
		subject string
		card    share.Card
	)
	switch {
	case req.Msg.UserID != "":
		profile, err := s.analyzeUser(ctx, req.Msg.UserID, req.Msg.GroupID, nil)
		if err != nil {
			return nil, toConnectError(err)
		}
		subject, card = req.Msg.UserID, share.UserCard(profile)
	case req.Msg.GroupID != "":
		result, err := s.analyzeGroup(ctx, req.Msg.GroupID, nil, nil)
		if err != nil {
			return nil, toConnectError(err)
		}
		subject, card = req.Msg.GroupID, share.GroupCard(result)
	default:
		return nil, invalidArgument(errors.New("user_id or group_id required"))
	}

	token, claims, err := s.issuer.Issue(subject, card)
	if err != nil {
		slog.Error("SharePersona failed", "subject", subject, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Share token issued", "subject", subject, "persona", card.Key)
	return connect.NewResponse(&SharePersonaResponse{
		Token:     token,
		Card:      card,
		ExpiresAt: claims.ExpiresAt.Time,
	}), nil
}

// VerifyShare checks a share token and returns the card it carries.
func (s *PersonaService) VerifyShare(ctx context.Context, req *connect.Request[VerifyShareRequest]) (*connect.Response[VerifyShareResponse], error) {
	if s.issuer == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("sharing is not configured"))
	}
	if req.Msg.Token == "" {
		return nil, invalidArgument(errMissingToken)
	}

	claims, err := s.issuer.Verify(req.Msg.Token)
	if err != nil {
		slog.Warn("VerifyShare rejected token", "error", err)
		return nil, toConnectError(err)
	}

	resp := &VerifyShareResponse{Subject: claims.Subject, Card: claims.Card}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return connect.NewResponse(resp), nil
}

func (s *PersonaService) analyzeUser(ctx context.Context, userID, groupID string, inline *persona.Records) (persona.Profile, error) {
	start := time.Now()
	cacheable := inline == nil && groupID != ""
	var gen uint64
	if cacheable {
		if p, ok := s.cache.profile(groupID, userID); ok {
			return p, nil
		}
		gen = s.cache.generation(groupID)
	}

	rec, err := s.records(ctx, userID, groupID, inline)
	if err != nil {
		return persona.Profile{}, err
	}
	p := s.catalog.AnalyzeUser(userID, rec)
	if cacheable {
		s.cache.putProfile(gen, groupID, p)
	}
	s.metrics.observe("user", p.Key, start)
	return p, nil
}

func (s *PersonaService) analyzeGroup(ctx context.Context, groupID string, memberIDs []string, inline *persona.Records) (persona.GroupResult, error) {
	start := time.Now()
	if inline != nil {
		if memberIDs == nil {
			memberIDs = inlineMembers(groupID, *inline)
		}
		r := s.catalog.AnalyzeGroup(groupID, memberIDs, *inline)
		s.metrics.observe("group", r.Dominant.Key, start)
		return r, nil
	}

	if r, ok := s.cache.group(groupID); ok {
		return r, nil
	}
	gen := s.cache.generation(groupID)
	group, rec, err := storage.LoadGroupRecords(ctx, s.store, groupID)
	if err != nil {
		return persona.GroupResult{}, err
	}
	r := s.catalog.AnalyzeGroup(group.ID, group.Members, rec)
	s.cache.putGroup(gen, r)
	s.metrics.observe("group", r.Dominant.Key, start)
	return r, nil
}

// records resolves the history an analysis runs over: inline records win,
// then a single group's records, then the union of all of userID's groups.
func (s *PersonaService) records(ctx context.Context, userID, groupID string, inline *persona.Records) (persona.Records, error) {
	if inline != nil {
		return *inline, nil
	}
	if groupID != "" {
		_, rec, err := storage.LoadGroupRecords(ctx, s.store, groupID)
		return rec, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return persona.Records{}, err
	}
	var all persona.Records
	seen := make(map[string]bool)
	for _, id := range user.GroupIDs {
		_, rec, err := storage.LoadGroupRecords(ctx, s.store, id)
		if err != nil {
			return persona.Records{}, err
		}
		all.Groups = append(all.Groups, rec.Groups...)
		all.Events = append(all.Events, rec.Events...)
		all.Transactions = append(all.Transactions, rec.Transactions...)
		for _, u := range rec.Users {
			if !seen[u.ID] {
				seen[u.ID] = true
				all.Users = append(all.Users, u)
			}
		}
	}
	return all, nil
}

func inlineMembers(groupID string, rec persona.Records) []string {
	for _, g := range rec.Groups {
		if g.ID == groupID {
			return g.Members
		}
	}
	return nil
}
