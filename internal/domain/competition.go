package domain

// Competition представляет соревнование; на клиенте только для чтения
type Competition struct {
	ID                 int64  `json:"id"`
	Slug               string `json:"slug" validate:"required"`
	Name               string `json:"name"`
	ShortDesc          string `json:"shortDesc,omitempty"`
	Category           string `json:"category,omitempty"`
	MinTeamMembers     int    `json:"minTeamMembers,omitempty"`
	MaxTeamMembers     int    `json:"maxTeamMembers,omitempty"`
	IsRegistrationOpen bool   `json:"isRegistrationOpen"`
}
