package model

type Comment struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	OwnerID   string       `json:"owner_id"`
	PostID    string       `json:"post_id"`
	ParentID  string       `json:"parent_id,omitempty"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
	Stats     CommentStats `json:"stats"`
}

type CommentStats struct {
	RepliesCount   int64 `json:"replies_count"`
	BookmarksCount int64 `json:"bookmarks_count"`
	UpvotesCount   int64 `json:"upvotes_count"`
	DownvotesCount int64 `json:"downvotes_count"`
}

type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

type CreateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type ReplyCommentRequest struct {
	CommentID string `json:"comment_id"`
	Content   string `json:"content"`
}

type ReplyCommentResponse struct {
	Comment Comment `json:"comment"`
}

type GetCommentRequest struct {
	ID string `json:"id"`
}

type GetCommentResponse struct {
	Comment Comment `json:"comment"`
}

type GetCommentsRequest struct {
	Pagination
	PostID string `json:"post_id"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
	PageInfo PageInfo  `json:"page_info"`
}

type GetRepliesRequest struct {
	Pagination
	CommentID string `json:"comment_id"`
}

type GetRepliesResponse struct {
	Comments []Comment `json:"comments"`
	PageInfo PageInfo  `json:"page_info"`
}

type UpdateCommentRequest struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

type UpdateCommentResponse struct {
	Comment Comment `json:"comment"`
}

type DeleteCommentRequest struct {
	ID string `json:"id"`
}

type DeleteCommentResponse struct{}

type VoteCommentRequest struct {
	ID        string `json:"id"`
	Direction int    `json:"direction"`
}

type VoteCommentResponse struct {
	Stats CommentStats `json:"stats"`
}

type CancelCommentVoteRequest struct {
	ID string `json:"id"`
}

type CancelCommentVoteResponse struct {
	Stats CommentStats `json:"stats"`
}

type GetCommentVotesRequest struct {
	Pagination
	ID string `json:"id"`
}

type GetCommentVotesResponse struct {
	Votes    []Vote   `json:"votes"`
	PageInfo PageInfo `json:"page_info"`
}

type BookmarkCommentRequest struct {
	ID string `json:"id"`
}

type BookmarkCommentResponse struct{}

type UnbookmarkCommentRequest struct {
	ID string `json:"id"`
}

type UnbookmarkCommentResponse struct{}

type GetBookmarkedCommentsRequest struct {
	Pagination
}

type GetBookmarkedCommentsResponse struct {
	Comments []Comment `json:"comments"`
	PageInfo PageInfo  `json:"page_info"`
}
