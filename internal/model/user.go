package model

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt string    `json:"created_at"`
	Stats     UserStats `json:"stats"`
}

type UserStats struct {
	FollowersCount     int64 `json:"followers_count"`
	FollowingCount     int64 `json:"following_count"`
	CommunitiesCount   int64 `json:"communities_count"`
	PostsCount         int64 `json:"posts_count"`
	CommentsCount      int64 `json:"comments_count"`
	SubscriptionsCount int64 `json:"subscriptions_count"`
	ModerationsCount   int64 `json:"moderations_count"`
}

type ShortUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}

type GetUserRequest struct {
	Username string `json:"username"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type GetUsersRequest struct {
	Pagination
	Q string `json:"q"`
}

type GetUsersResponse struct {
	Users    []User   `json:"users"`
	PageInfo PageInfo `json:"page_info"`
}

type GetFollowersRequest struct {
	Pagination
	Username string `json:"username"`
}

type GetFollowersResponse struct {
	Users    []User   `json:"users"`
	PageInfo PageInfo `json:"page_info"`
}

type GetFollowingRequest struct {
	Pagination
	Username string `json:"username"`
}

type GetFollowingResponse struct {
	Users    []User   `json:"users"`
	PageInfo PageInfo `json:"page_info"`
}

type GetBlockedUsersRequest struct {
	Pagination
}

type GetBlockedUsersResponse struct {
	Users    []User   `json:"users"`
	PageInfo PageInfo `json:"page_info"`
}

type FollowRequest struct {
	Username string `json:"username"`
}

type FollowResponse struct{}

type UnfollowRequest struct {
	Username string `json:"username"`
}

type UnfollowResponse struct{}

type BlockRequest struct {
	Username string `json:"username"`
}

type BlockResponse struct{}

type UnblockRequest struct {
	Username string `json:"username"`
}

type UnblockResponse struct{}
