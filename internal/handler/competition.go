package handler

import (
	"net/http"
)

// CompetitionHandler обрабатывает эндпоинты соревнований и команд.
// Все методы работают с рабочим пространством текущей сессии.
type CompetitionHandler struct{}

// NewCompetitionHandler создает новый CompetitionHandler
func NewCompetitionHandler() *CompetitionHandler {
	return &CompetitionHandler{}
}

// RegisterTeamRequest представляет тело запроса на регистрацию команды
type RegisterTeamRequest struct {
	Name        string `json:"name" validate:"required"`
	Institution string `json:"institution" validate:"required"`
}

// ChangeTeamRequest представляет тело запроса на изменение команды
type ChangeTeamRequest struct {
	Name            string `json:"name" validate:"required"`
	TeamLeaderEmail string `json:"teamLeaderEmail" validate:"required,email"`
	Institution     string `json:"institution" validate:"required"`
}

// AddMemberRequest представляет тело запроса на добавление участника
type AddMemberRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

// SubmitTaskRequest представляет ответ на задание
type SubmitTaskRequest struct {
	Response     string `json:"response" validate:"required"`
	TeamMemberID *int64 `json:"teamMemberId" validate:"omitempty,gt=0"`
}

// ListCompetitions обрабатывает GET /competitions
func (h *CompetitionHandler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	competitions, err := ws.Competitions.FetchCompetitionList(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, competitions)
}

// ListTeams обрабатывает GET /teams
func (h *CompetitionHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}

	teams, err := ws.Competitions.FetchTeamList(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, teams)
}

// GetTeam обрабатывает GET /teams/{teamID}
func (h *CompetitionHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := ws.Competitions.FetchTeamDetail(r.Context(), teamID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// RegisterTeam обрабатывает POST /competitions/{competitionID}/teams
func (h *CompetitionHandler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	competitionID, err := idParam(r, "competitionID")
	if err != nil {
		HandleError(w, r, err)
		return
	}
	var req RegisterTeamRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := ws.Competitions.RegisterTeam(r.Context(), competitionID, req.Name, req.Institution)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, team)
}

// ChangeTeam обрабатывает PATCH /teams/{teamID}
func (h *CompetitionHandler) ChangeTeam(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		HandleError(w, r, err)
		return
	}
	var req ChangeTeamRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	team, err := ws.Competitions.ChangeTeam(r.Context(), teamID, req.Name, req.TeamLeaderEmail, req.Institution)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, team)
}

// DeleteTeam обрабатывает DELETE /teams/{teamID}
func (h *CompetitionHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := ws.Competitions.DeleteTeam(r.Context(), teamID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMember обрабатывает POST /teams/{teamID}/members
func (h *CompetitionHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		HandleError(w, r, err)
		return
	}
	var req AddMemberRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	member, err := ws.Competitions.AddMember(r.Context(), teamID, req.FullName, req.Email)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, member)
}

// RemoveMember обрабатывает DELETE /teams/{teamID}/members/{memberID}
func (h *CompetitionHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		HandleError(w, r, err)
		return
	}
	memberID, err := idParam(r, "memberID")
	if err != nil {
		HandleError(w, r, err)
		return
	}

	if err := ws.Competitions.RemoveMember(r.Context(), teamID, memberID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SubmitTask обрабатывает POST /teams/{teamID}/tasks/{taskID}
func (h *CompetitionHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		HandleError(w, r, err)
		return
	}
	taskID, err := idParam(r, "taskID")
	if err != nil {
		HandleError(w, r, err)
		return
	}
	var req SubmitTaskRequest
	if err := decodeRequest(r, &req); err != nil {
		HandleError(w, r, err)
		return
	}

	res, err := ws.Competitions.SubmitTaskResponse(r.Context(), teamID, taskID, req.Response, req.TeamMemberID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, res)
}
