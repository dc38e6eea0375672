package domain

import "time"

// User представляет учётную запись участника, которой владеет сессия
type User struct {
	Email            string  `json:"email" validate:"required"`
	FullName         string  `json:"fullName" validate:"required"`
	CurrentEducation *string `json:"currentEducation"`
	Institution      *string `json:"institution"`
	PhoneNumber      *string `json:"phoneNumber"`
	Address          *string `json:"address"`
	BirthDate        *string `json:"birthDate"`
}

// AuthenticationResult представляет результат успешного логина
type AuthenticationResult struct {
	BearerToken string `json:"bearerToken"`
	ExpiresAt   int64  `json:"expiresAt"` // Абсолютное время истечения в миллисекундах Unix
	User        User   `json:"user"`
}

// Expiry возвращает момент истечения токена как time.Time
func (r AuthenticationResult) Expiry() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}

// StringPtr возвращает указатель на строку (удобно для опциональных полей)
func StringPtr(s string) *string {
	return &s
}
