package dto

import (
	"github.com/SscSPs/treasury_backoffice/internal/core/domain"
)

// UserResponse is the principal view of a user returned to clients.
// The shape matches domain.Principal so a client can decode it directly.
type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.UserID,
		Username: user.Username,
		Name:     user.Name,
		Roles:    domain.NormalizeRoles(user.Roles),
	}
}
