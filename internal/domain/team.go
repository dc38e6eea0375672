package domain

import "time"

// Team представляет команду, зарегистрированную на соревнование.
// Опциональные поля хранятся указателями: nil означает, что поле отсутствовало в ответе сервиса.
type Team struct {
	ID              int64        `json:"id" validate:"required"`
	Name            *string      `json:"name,omitempty"`
	Institution     *string      `json:"institution,omitempty"`
	TeamLeaderEmail *string      `json:"teamLeaderEmail,omitempty"`
	IsParticipating *bool        `json:"isParticipating,omitempty"`
	Competition     *Competition `json:"competition,omitempty"`
	CreatedAt       *time.Time   `json:"createdAt,omitempty"`
	TeamMembers     []Member     `json:"teamMembers" validate:"omitempty,dive"` // nil - список участников не загружен
}

// Member представляет участника команды
type Member struct {
	ID           int64  `json:"id" validate:"required"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	HasAccount   bool   `json:"hasAccount"`
	IsTeamLeader bool   `json:"isTeamLeader"`
}

// CompetitionSlug возвращает slug соревнования команды, если оно известно
func (t *Team) CompetitionSlug() (string, bool) {
	if t.Competition == nil || t.Competition.Slug == "" {
		return "", false
	}
	return t.Competition.Slug, true
}

// Merge накладывает присутствующие поля incoming поверх t.
// Отсутствующие в incoming поля сохраняют текущее значение.
// Результат не разделяет память ни с t, ни с incoming.
func (t Team) Merge(incoming Team) Team {
	merged := t.Clone()
	in := incoming.Clone()
	merged.ID = in.ID
	if in.Name != nil {
		merged.Name = in.Name
	}
	if in.Institution != nil {
		merged.Institution = in.Institution
	}
	if in.TeamLeaderEmail != nil {
		merged.TeamLeaderEmail = in.TeamLeaderEmail
	}
	if in.IsParticipating != nil {
		merged.IsParticipating = in.IsParticipating
	}
	if in.Competition != nil {
		merged.Competition = in.Competition
	}
	if in.CreatedAt != nil {
		merged.CreatedAt = in.CreatedAt
	}
	if in.TeamMembers != nil {
		merged.TeamMembers = in.TeamMembers
	}
	return merged
}

// Clone возвращает глубокую копию команды: указатели и список участников не разделяются
func (t Team) Clone() Team {
	t.Name = clonePtr(t.Name)
	t.Institution = clonePtr(t.Institution)
	t.TeamLeaderEmail = clonePtr(t.TeamLeaderEmail)
	t.IsParticipating = clonePtr(t.IsParticipating)
	t.Competition = clonePtr(t.Competition)
	t.CreatedAt = clonePtr(t.CreatedAt)
	t.TeamMembers = cloneMembers(t.TeamMembers)
	return t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneMembers(members []Member) []Member {
	if members == nil {
		return nil
	}
	out := make([]Member, len(members))
	copy(out, members)
	return out
}

// TaskResponse представляет ответ команды на задание соревнования
type TaskResponse struct {
	ID           int64  `json:"id" validate:"required"`
	TaskID       int64  `json:"taskId"`
	TeamID       int64  `json:"teamId"`
	TeamMemberID *int64 `json:"teamMemberId,omitempty"`
	Response     string `json:"response"`
	Status       string `json:"status"`
}
