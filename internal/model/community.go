package model

type Community struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	About     string         `json:"about"`
	OwnerID   string         `json:"owner_id"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Stats     CommunityStats `json:"stats"`
}

type CommunityStats struct {
	PostsCount       int64 `json:"posts_count"`
	CommentsCount    int64 `json:"comments_count"`
	SubscribersCount int64 `json:"subscribers_count"`
	ModeratorsCount  int64 `json:"moderators_count"`
	BannedCount      int64 `json:"banned_count"`
}

type CreateCommunityRequest struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

type CreateCommunityResponse struct {
	Community Community `json:"community"`
}

type GetCommunityRequest struct {
	Name string `json:"name"`
}

type GetCommunityResponse struct {
	Community Community `json:"community"`
}

type GetCommunitiesRequest struct {
	Pagination
	Q string `json:"q"`
}

type GetCommunitiesResponse struct {
	Communities []Community `json:"communities"`
	PageInfo    PageInfo    `json:"page_info"`
}

type GetMyCommunitiesRequest struct {
	Pagination
}

type GetMyCommunitiesResponse struct {
	Communities []Community `json:"communities"`
	PageInfo    PageInfo    `json:"page_info"`
}

type UpdateCommunityRequest struct {
	Name  string `json:"name"`
	About string `json:"about"`
}

type UpdateCommunityResponse struct {
	Community Community `json:"community"`
}

type DeleteCommunityRequest struct {
	Name string `json:"name"`
}

type DeleteCommunityResponse struct{}

type SubscribeCommunityRequest struct {
	Name string `json:"name"`
}

type SubscribeCommunityResponse struct{}

type UnsubscribeCommunityRequest struct {
	Name string `json:"name"`
}

type UnsubscribeCommunityResponse struct{}

type BanUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type BanUserResponse struct{}

type UnbanUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type UnbanUserResponse struct{}

type ModUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type ModUserResponse struct{}

type UnmodUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type UnmodUserResponse struct{}

type TransferCommunityRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

type TransferCommunityResponse struct {
	Community Community `json:"community"`
}

type GetSubscribersRequest struct {
	Pagination
	Name string `json:"name"`
}

type GetSubscribersResponse struct {
	Users    []User   `json:"users"`
	PageInfo PageInfo `json:"page_info"`
}

type GetModeratorsRequest struct {
	Name string `json:"name"`
}

type GetModeratorsResponse struct {
	Users []User `json:"users"`
}

type GetBannedUsersRequest struct {
	Pagination
	Name string `json:"name"`
}

type GetBannedUsersResponse struct {
	Users    []User   `json:"users"`
	PageInfo PageInfo `json:"page_info"`
}
