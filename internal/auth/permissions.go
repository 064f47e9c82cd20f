package auth

import (
	"fmt"

	"lumina_backend/internal/models"
)

// Роли, которые может нести токен. Аноним - это отсутствие токена.
var tokenRoles = map[models.UserRole]bool{
	models.UserRoleMember:    true,
	models.UserRoleModerator: true,
}

// ValidateRole проверяет, что роль допустима в токене
func ValidateRole(role models.UserRole) error {
	if !tokenRoles[role] {
		return fmt.Errorf("invalid role %q: expected member or moderator", role)
	}
	return nil
}
