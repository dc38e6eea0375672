package fakeapi

import (
	"context"
	"net/http"

	"github.com/arkavidia/competition-gateway/internal/domain"
)

func withEmail(r *http.Request, email string) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, email)
}

func emailFrom(r *http.Request) string {
	email, _ := r.Context().Value(ctxKey{}).(string)
	return email
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		respondError(w, r, http.StatusUnauthorized, "login_failed", "Wrong email or password.")
		return
	}
	if !acc.confirmed {
		respondError(w, r, http.StatusUnauthorized, "account_email_not_confirmed", "Please confirm your email first.")
		return
	}

	token, exp, err := s.IssueToken(acc.user.Email)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "unknown_error", err.Error())
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"token": token, "exp": exp, "user": acc.user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"fullName"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		respondError(w, r, http.StatusBadRequest, "registration_failed_email_used", "Email is already in use.")
		return
	}
	s.accounts[req.Email] = &account{
		user:     domain.User{Email: req.Email, FullName: req.FullName},
		password: req.Password,
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) confirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usedTokens[req.Token] {
		respondError(w, r, http.StatusBadRequest, "token_used", "Token has already been used.")
		return
	}
	email, ok := s.resetTokens[req.Token]
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid_token", "Invalid token.")
		return
	}
	if acc, ok := s.accounts[email]; ok {
		acc.password = req.NewPassword
	}
	s.usedTokens[req.Token] = true
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) confirmRegistration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.confirmTkns[req.Token]
	if !ok {
		respondError(w, r, http.StatusBadRequest, "invalid_token", "Invalid token.")
		return
	}
	if acc, ok := s.accounts[email]; ok {
		acc.confirmed = true
	}
	delete(s.confirmTkns, req.Token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user := s.accounts[emailFrom(r)].user
	s.mu.Unlock()
	respondJSON(w, r, http.StatusOK, user)
}

func (s *Server) editUser(w http.ResponseWriter, r *http.Request) {
	var req map[string]*string
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[emailFrom(r)]
	if name := req["fullName"]; name != nil {
		acc.user.FullName = *name
	}
	acc.user.CurrentEducation = req["currentEducation"]
	acc.user.Institution = req["institution"]
	acc.user.PhoneNumber = req["phoneNumber"]
	acc.user.Address = req["address"]
	acc.user.BirthDate = req["birthDate"]
	respondJSON(w, r, http.StatusOK, acc.user)
}

func (s *Server) listCompetitions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	competitions := append([]domain.Competition{}, s.competitions...)
	s.mu.Unlock()
	respondJSON(w, r, http.StatusOK, competitions)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r)
	s.mu.Lock()
	teams := sortedTeams(s.teams, func(id int64) bool { return s.owners[id] == email })
	s.mu.Unlock()
	respondJSON(w, r, http.StatusOK, teams)
}

// ownedTeam resolves the team in the URL. It must be called with mu held.
func (s *Server) ownedTeam(w http.ResponseWriter, r *http.Request) (*domain.Team, bool) {
	id, ok := idParam(w, r, "teamID")
	if !ok {
		return nil, false
	}
	team, exists := s.teams[id]
	if !exists || s.owners[id] != emailFrom(r) {
		respondError(w, r, http.StatusNotFound, "team_not_found", "Team not found.")
		return nil, false
	}
	return team, true
}

func (s *Server) teamDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.ownedTeam(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusOK, team.Clone())
}

func (s *Server) registerTeam(w http.ResponseWriter, r *http.Request) {
	competitionID, ok := idParam(w, r, "competitionID")
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Institution string `json:"institution"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var competition *domain.Competition
	for i := range s.competitions {
		if s.competitions[i].ID == competitionID {
			c := s.competitions[i]
			competition = &c
		}
	}
	if competition == nil {
		respondError(w, r, http.StatusNotFound, "competition_not_found", "Competition not found.")
		return
	}
	if !competition.IsRegistrationOpen {
		respondError(w, r, http.StatusBadRequest, "registration_closed", "Registration is closed.")
		return
	}

	email := emailFrom(r)
	leader := s.accounts[email].user
	team := &domain.Team{
		ID:              s.id(),
		Name:            domain.StringPtr(req.Name),
		Institution:     domain.StringPtr(req.Institution),
		TeamLeaderEmail: domain.StringPtr(email),
		Competition:     competition,
		TeamMembers: []domain.Member{{
			ID:           s.id(),
			FullName:     leader.FullName,
			Email:        leader.Email,
			HasAccount:   true,
			IsTeamLeader: true,
		}},
	}
	s.teams[team.ID] = team
	s.owners[team.ID] = email
	respondJSON(w, r, http.StatusCreated, team.Clone())
}

func (s *Server) changeTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		TeamLeaderEmail string `json:"teamLeaderEmail"`
		Institution     string `json:"institution"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.ownedTeam(w, r)
	if !ok {
		return
	}
	team.Name = domain.StringPtr(req.Name)
	team.TeamLeaderEmail = domain.StringPtr(req.TeamLeaderEmail)
	team.Institution = domain.StringPtr(req.Institution)
	for i := range team.TeamMembers {
		team.TeamMembers[i].IsTeamLeader = team.TeamMembers[i].Email == req.TeamLeaderEmail
	}
	respondJSON(w, r, http.StatusOK, team.Clone())
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.ownedTeam(w, r)
	if !ok {
		return
	}
	delete(s.teams, team.ID)
	delete(s.owners, team.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.ownedTeam(w, r)
	if !ok {
		return
	}
	for _, m := range team.TeamMembers {
		if m.Email == req.Email {
			respondError(w, r, http.StatusBadRequest, "member_exists", "Member is already in the team.")
			return
		}
	}
	_, hasAccount := s.accounts[req.Email]
	member := domain.Member{
		ID:         s.id(),
		FullName:   req.FullName,
		Email:      req.Email,
		HasAccount: hasAccount,
	}
	team.TeamMembers = append(team.TeamMembers, member)
	respondJSON(w, r, http.StatusCreated, member)
}

func (s *Server) removeMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := idParam(w, r, "memberID")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.ownedTeam(w, r)
	if !ok {
		return
	}
	for i, m := range team.TeamMembers {
		if m.ID == memberID {
			team.TeamMembers = append(team.TeamMembers[:i], team.TeamMembers[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	respondError(w, r, http.StatusNotFound, "member_not_found", "Member not found.")
}

func (s *Server) submitTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := idParam(w, r, "taskID")
	if !ok {
		return
	}
	var req struct {
		Response     string `json:"response"`
		TeamMemberID *int64 `json:"teamMemberId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.ownedTeam(w, r)
	if !ok {
		return
	}
	respondJSON(w, r, http.StatusCreated, domain.TaskResponse{
		ID:           s.id(),
		TaskID:       taskID,
		TeamID:       team.ID,
		TeamMemberID: req.TeamMemberID,
		Response:     req.Response,
		Status:       "awaiting_validation",
	})
}
