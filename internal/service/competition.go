package service

import (
	"context"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/store"
)

// CompetitionService runs competition and team actions. Each action makes one
// gateway call and commits the result to the store only when the call
// succeeds. Gateway errors are returned unchanged.
type CompetitionService struct {
	api   CompetitionAPI
	store *store.Competitions
}

// NewCompetitionService creates a new CompetitionService
func NewCompetitionService(api CompetitionAPI, competitions *store.Competitions) *CompetitionService {
	return &CompetitionService{
		api:   api,
		store: competitions,
	}
}

// FetchCompetitionList loads all competitions and replaces the cached ones
func (s *CompetitionService) FetchCompetitionList(ctx context.Context) ([]domain.Competition, error) {
	competitions, err := s.api.GetCompetitionList(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SetCompetitions(competitions)
	return competitions, nil
}

// FetchTeamList loads the user's teams and replaces the cached ones
func (s *CompetitionService) FetchTeamList(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.api.GetTeamList(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SetTeams(teams)
	return teams, nil
}

// FetchTeamDetail loads one team and merges it into the cache
func (s *CompetitionService) FetchTeamDetail(ctx context.Context, teamID int64) (domain.Team, error) {
	team, err := s.api.GetTeamDetail(ctx, teamID)
	if err != nil {
		return domain.Team{}, err
	}
	s.store.SetTeam(team)
	return team, nil
}

// RegisterTeam registers a team to a competition and caches it
func (s *CompetitionService) RegisterTeam(ctx context.Context, competitionID int64, name, institution string) (domain.Team, error) {
	team, err := s.api.RegisterTeam(ctx, competitionID, name, institution)
	if err != nil {
		return domain.Team{}, err
	}
	s.store.SetTeam(team)
	return team, nil
}

// ChangeTeam edits a team and merges the result into the cache
func (s *CompetitionService) ChangeTeam(ctx context.Context, teamID int64, name, teamLeaderEmail, institution string) (domain.Team, error) {
	team, err := s.api.ChangeTeam(ctx, teamID, name, teamLeaderEmail, institution)
	if err != nil {
		return domain.Team{}, err
	}
	s.store.SetTeam(team)
	return team, nil
}

// DeleteTeam deletes a team and drops it from the cache
func (s *CompetitionService) DeleteTeam(ctx context.Context, teamID int64) error {
	if err := s.api.DeleteTeam(ctx, teamID); err != nil {
		return err
	}
	s.store.DeleteTeam(teamID)
	return nil
}

// AddMember adds a member to a team and appends it to the cached member list
func (s *CompetitionService) AddMember(ctx context.Context, teamID int64, fullName, email string) (domain.Member, error) {
	member, err := s.api.AddMember(ctx, teamID, fullName, email)
	if err != nil {
		return domain.Member{}, err
	}
	s.store.AddMember(teamID, member)
	return member, nil
}

// RemoveMember removes a member from a team and from the cache
func (s *CompetitionService) RemoveMember(ctx context.Context, teamID, teamMemberID int64) error {
	if err := s.api.RemoveMember(ctx, teamID, teamMemberID); err != nil {
		return err
	}
	s.store.RemoveMember(teamID, teamMemberID)
	return nil
}

// SubmitTaskResponse submits an answer; the cache is not touched
func (s *CompetitionService) SubmitTaskResponse(ctx context.Context, teamID, taskID int64, response string, teamMemberID *int64) (domain.TaskResponse, error) {
	return s.api.SubmitTaskResponse(ctx, teamID, taskID, response, teamMemberID)
}
