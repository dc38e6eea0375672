package handler

import (
	"net/http"
)

// StoreHandler отдает представления кэша текущей сессии без обращения к сервису
type StoreHandler struct{}

// NewStoreHandler создает новый StoreHandler
func NewStoreHandler() *StoreHandler {
	return &StoreHandler{}
}

// Competitions обрабатывает GET /store/competitions
func (h *StoreHandler) Competitions(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspace(w, r); ok {
		RespondWithJSON(w, r, http.StatusOK, ws.Store.Competitions())
	}
}

// CompetitionsBySlug обрабатывает GET /store/competitions/by-slug
func (h *StoreHandler) CompetitionsBySlug(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspace(w, r); ok {
		RespondWithJSON(w, r, http.StatusOK, ws.Store.CompetitionsBySlug())
	}
}

// Teams обрабатывает GET /store/teams
func (h *StoreHandler) Teams(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspace(w, r); ok {
		RespondWithJSON(w, r, http.StatusOK, ws.Store.Teams())
	}
}

// TeamsByID обрабатывает GET /store/teams/by-id
func (h *StoreHandler) TeamsByID(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspace(w, r); ok {
		RespondWithJSON(w, r, http.StatusOK, ws.Store.TeamsByID())
	}
}

// TeamsBySlug обрабатывает GET /store/teams/by-slug
func (h *StoreHandler) TeamsBySlug(w http.ResponseWriter, r *http.Request) {
	if ws, ok := workspace(w, r); ok {
		RespondWithJSON(w, r, http.StatusOK, ws.Store.TeamsBySlug())
	}
}
