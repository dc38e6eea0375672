package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

type userAPIMock struct{ mock.Mock }

var _ UserAPI = (*userAPIMock)(nil)

func (m *userAPIMock) GetSession(ctx context.Context, token string) (domain.User, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userAPIMock) Login(ctx context.Context, email, password string) (domain.AuthenticationResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.AuthenticationResult), args.Error(1)
}

func (m *userAPIMock) Register(ctx context.Context, email, fullName, password string) error {
	return m.Called(ctx, email, fullName, password).Error(0)
}

func (m *userAPIMock) Recover(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *userAPIMock) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

func (m *userAPIMock) ConfirmEmailAddress(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *userAPIMock) GetUserDetails(ctx context.Context) (domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *userAPIMock) EditUser(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

type competitionAPIMock struct{ mock.Mock }

var _ CompetitionAPI = (*competitionAPIMock)(nil)

func (m *competitionAPIMock) GetCompetitionList(ctx context.Context) ([]domain.Competition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Competition), args.Error(1)
}

func (m *competitionAPIMock) GetTeamList(ctx context.Context) ([]domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Team), args.Error(1)
}

func (m *competitionAPIMock) GetTeamDetail(ctx context.Context, teamID int64) (domain.Team, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(domain.Team), args.Error(1)
}

func (m *competitionAPIMock) RegisterTeam(ctx context.Context, competitionID int64, name, institution string) (domain.Team, error) {
	args := m.Called(ctx, competitionID, name, institution)
	return args.Get(0).(domain.Team), args.Error(1)
}

func (m *competitionAPIMock) ChangeTeam(ctx context.Context, teamID int64, name, teamLeaderEmail, institution string) (domain.Team, error) {
	args := m.Called(ctx, teamID, name, teamLeaderEmail, institution)
	return args.Get(0).(domain.Team), args.Error(1)
}

func (m *competitionAPIMock) DeleteTeam(ctx context.Context, teamID int64) error {
	return m.Called(ctx, teamID).Error(0)
}

func (m *competitionAPIMock) AddMember(ctx context.Context, teamID int64, fullName, email string) (domain.Member, error) {
	args := m.Called(ctx, teamID, fullName, email)
	return args.Get(0).(domain.Member), args.Error(1)
}

func (m *competitionAPIMock) RemoveMember(ctx context.Context, teamID, teamMemberID int64) error {
	return m.Called(ctx, teamID, teamMemberID).Error(0)
}

func (m *competitionAPIMock) SubmitTaskResponse(ctx context.Context, teamID, taskID int64, response string, teamMemberID *int64) (domain.TaskResponse, error) {
	args := m.Called(ctx, teamID, taskID, response, teamMemberID)
	return args.Get(0).(domain.TaskResponse), args.Error(1)
}
