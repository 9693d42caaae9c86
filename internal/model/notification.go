package model

type Notification struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	RecipientID string `json:"recipient_id"`
	ActorID     string `json:"actor_id"`
	CommunityID string `json:"community_id,omitempty"`
	PostID      string `json:"post_id,omitempty"`
	CommentID   string `json:"comment_id,omitempty"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"created_at"`
}

type GetNotificationsRequest struct {
	Pagination
	Unread bool `json:"unread"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
	PageInfo      PageInfo       `json:"page_info"`
}

type ReadNotificationsRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

type ReadNotificationsResponse struct{}
