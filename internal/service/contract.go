package service

import (
	"context"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// UserAPI is the part of the gateway the auth actions need.
type UserAPI interface {
	GetSession(ctx context.Context, token string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.AuthenticationResult, error)
	Register(ctx context.Context, email, fullName, password string) error
	Recover(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ConfirmEmailAddress(ctx context.Context, token string) error
	GetUserDetails(ctx context.Context) (domain.User, error)
	EditUser(ctx context.Context, user domain.User) (domain.User, error)
}

// CompetitionAPI is the part of the gateway the competition actions need.
type CompetitionAPI interface {
	GetCompetitionList(ctx context.Context) ([]domain.Competition, error)
	GetTeamList(ctx context.Context) ([]domain.Team, error)
	GetTeamDetail(ctx context.Context, teamID int64) (domain.Team, error)
	RegisterTeam(ctx context.Context, competitionID int64, name, institution string) (domain.Team, error)
	ChangeTeam(ctx context.Context, teamID int64, name, teamLeaderEmail, institution string) (domain.Team, error)
	DeleteTeam(ctx context.Context, teamID int64) error
	AddMember(ctx context.Context, teamID int64, fullName, email string) (domain.Member, error)
	RemoveMember(ctx context.Context, teamID, teamMemberID int64) error
	SubmitTaskResponse(ctx context.Context, teamID, taskID int64, response string, teamMemberID *int64) (domain.TaskResponse, error)
}
