package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

// CompetitionAPI wraps the competition and team endpoints. Failures carry a
// boolean-flagged APIError.
type CompetitionAPI struct {
	client *Client
}

// NewCompetitionAPI creates a CompetitionAPI on top of client.
func NewCompetitionAPI(client *Client) *CompetitionAPI {
	return &CompetitionAPI{client: client}
}

// GetCompetitionList returns all competitions.
func (a *CompetitionAPI) GetCompetitionList(ctx context.Context) ([]domain.Competition, error) {
	raw, err := a.call(ctx, "get competition list", http.MethodGet, "/competition/", nil)
	if err != nil {
		return nil, err
	}
	return DecodeCompetitions(raw)
}

// GetTeamList returns the teams of the session's user.
func (a *CompetitionAPI) GetTeamList(ctx context.Context) ([]domain.Team, error) {
	raw, err := a.call(ctx, "get team list", http.MethodGet, "/competition/teams/", nil)
	if err != nil {
		return nil, err
	}
	return DecodeTeams(raw)
}

// GetTeamDetail returns a single team with its members.
func (a *CompetitionAPI) GetTeamDetail(ctx context.Context, teamID int64) (domain.Team, error) {
	raw, err := a.call(ctx, "get team detail", http.MethodGet, teamPath(teamID), nil)
	if err != nil {
		return domain.Team{}, err
	}
	return DecodeTeam(raw)
}

// RegisterTeam registers a new team to a competition.
func (a *CompetitionAPI) RegisterTeam(ctx context.Context, competitionID int64, name, institution string) (domain.Team, error) {
	body := map[string]string{"name": name, "institution": institution}
	path := fmt.Sprintf("/competition/%d/teams/", competitionID)
	raw, err := a.call(ctx, "register team", http.MethodPost, path, body)
	if err != nil {
		return domain.Team{}, err
	}
	return DecodeTeam(raw)
}

// ChangeTeam updates a team's name, leader and institution.
func (a *CompetitionAPI) ChangeTeam(ctx context.Context, teamID int64, name, teamLeaderEmail, institution string) (domain.Team, error) {
	body := map[string]string{"name": name, "teamLeaderEmail": teamLeaderEmail, "institution": institution}
	raw, err := a.call(ctx, "change team", http.MethodPatch, teamPath(teamID), body)
	if err != nil {
		return domain.Team{}, err
	}
	return DecodeTeam(raw)
}

// DeleteTeam deletes a team.
func (a *CompetitionAPI) DeleteTeam(ctx context.Context, teamID int64) error {
	_, err := a.call(ctx, "delete team", http.MethodDelete, teamPath(teamID), nil)
	return err
}

// AddMember invites a member to a team.
func (a *CompetitionAPI) AddMember(ctx context.Context, teamID int64, fullName, email string) (domain.Member, error) {
	body := map[string]string{"fullName": fullName, "email": email}
	raw, err := a.call(ctx, "add member", http.MethodPost, teamPath(teamID)+"members/", body)
	if err != nil {
		return domain.Member{}, err
	}
	return DecodeMember(raw)
}

// RemoveMember removes a member from a team.
func (a *CompetitionAPI) RemoveMember(ctx context.Context, teamID, teamMemberID int64) error {
	path := fmt.Sprintf("%smembers/%d/", teamPath(teamID), teamMemberID)
	_, err := a.call(ctx, "remove member", http.MethodDelete, path, nil)
	return err
}

type taskResponseRequest struct {
	Response     string `json:"response"`
	TeamMemberID *int64 `json:"teamMemberId"`
}

// SubmitTaskResponse submits a team's answer to a competition task.
// teamMemberID is set for tasks answered per member.
func (a *CompetitionAPI) SubmitTaskResponse(ctx context.Context, teamID, taskID int64, response string, teamMemberID *int64) (domain.TaskResponse, error) {
	body := taskResponseRequest{Response: response, TeamMemberID: teamMemberID}
	path := fmt.Sprintf("%stasks/%d/", teamPath(teamID), taskID)
	raw, err := a.call(ctx, "submit task response", http.MethodPost, path, body)
	if err != nil {
		return domain.TaskResponse{}, err
	}
	return DecodeTaskResponse(raw)
}

func (a *CompetitionAPI) call(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	raw, err := a.client.do(ctx, method, path, "", body)
	if err != nil {
		classified := classify(err, flagRules, false)
		a.client.logger.Warn("competition api call failed", "op", op, "error", classified)
		return nil, classified
	}
	return raw, nil
}

func teamPath(teamID int64) string {
	return fmt.Sprintf("/competition/teams/%d/", teamID)
}
