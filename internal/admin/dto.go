package admin

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/chats"
	"github.com/chatterboxhq/chatterbox-backend/internal/users"
)

// UserListResponse is one page of users plus the total row count.
type UserListResponse struct {
	Users []*users.UserDTO `json:"users"`
	Total int64            `json:"total"`
}

// ChatListResponse is one page of chats plus the total row count.
type ChatListResponse struct {
	Chats []*chats.ChatDTO `json:"chats"`
	Total int64            `json:"total"`
}

// UpdateUserRequest mirrors the profile fields an admin may edit.
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// Statistics summarizes platform usage for the admin dashboard. RecentSignups
// counts accounts created within the last seven days.
type Statistics struct {
	TotalUsers      int64            `json:"total_users"`
	TotalAdmins     int64            `json:"total_admins"`
	TotalChats      int64            `json:"total_chats"`
	TotalMessages   int64            `json:"total_messages"`
	AIMessages      int64            `json:"ai_messages"`
	UsersByProvider map[string]int64 `json:"users_by_provider"`
	RecentSignups   int64            `json:"recent_signups"`
}
