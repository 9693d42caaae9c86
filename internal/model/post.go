package model

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	OwnerID     string    `json:"owner_id"`
	CommunityID string    `json:"community_id"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Stats       PostStats `json:"stats"`
}

type PostStats struct {
	CommentsCount  int64 `json:"comments_count"`
	BookmarksCount int64 `json:"bookmarks_count"`
	UpvotesCount   int64 `json:"upvotes_count"`
	DownvotesCount int64 `json:"downvotes_count"`
}

type Vote struct {
	User      ShortUser `json:"user"`
	Direction int       `json:"direction"`
	CreatedAt string    `json:"created_at"`
}

type CreatePostRequest struct {
	CommunityName string `json:"community_name"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

type GetPostRequest struct {
	ID string `json:"id"`
}

type GetPostResponse struct {
	Post Post `json:"post"`
}

type GetPostsRequest struct {
	Pagination
	CommunityName string `json:"community_name"`
}

type GetPostsResponse struct {
	Posts    []Post   `json:"posts"`
	PageInfo PageInfo `json:"page_info"`
}

type GetUserPostsRequest struct {
	Pagination
	Username string `json:"username"`
}

type GetUserPostsResponse struct {
	Posts    []Post   `json:"posts"`
	PageInfo PageInfo `json:"page_info"`
}

type GetFeedRequest struct {
	Pagination
}

type GetFeedResponse struct {
	Posts    []Post   `json:"posts"`
	PageInfo PageInfo `json:"page_info"`
}

type UpdatePostRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type UpdatePostResponse struct {
	Post Post `json:"post"`
}

type DeletePostRequest struct {
	ID string `json:"id"`
}

type DeletePostResponse struct{}

type VotePostRequest struct {
	ID        string `json:"id"`
	Direction int    `json:"direction"`
}

type VotePostResponse struct {
	Stats PostStats `json:"stats"`
}

type CancelPostVoteRequest struct {
	ID string `json:"id"`
}

type CancelPostVoteResponse struct {
	Stats PostStats `json:"stats"`
}

type GetPostVotesRequest struct {
	Pagination
	ID string `json:"id"`
}

type GetPostVotesResponse struct {
	Votes    []Vote   `json:"votes"`
	PageInfo PageInfo `json:"page_info"`
}

type BookmarkPostRequest struct {
	ID string `json:"id"`
}

type BookmarkPostResponse struct{}

type UnbookmarkPostRequest struct {
	ID string `json:"id"`
}

type UnbookmarkPostResponse struct{}

type GetBookmarkedPostsRequest struct {
	Pagination
}

type GetBookmarkedPostsResponse struct {
	Posts    []Post   `json:"posts"`
	PageInfo PageInfo `json:"page_info"`
}
