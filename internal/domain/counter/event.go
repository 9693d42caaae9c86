package counter

import "github.com/questx-lab/agora/internal/entity"

type Kind int

const (
	PostCreated Kind = iota
	PostDeleted
	CommentCreated
	CommentDeleted
	CommunityCreated
	CommunityDeleted
	OwnershipTransferred
	FollowCreated
	FollowDeleted
	MemberAdded
	MemberRemoved
	PostVoteCreated
	PostVoteDeleted
	PostVoteFlipped
	CommentVoteCreated
	CommentVoteDeleted
	CommentVoteFlipped
	PostBookmarkCreated
	PostBookmarkDeleted
	CommentBookmarkCreated
	CommentBookmarkDeleted
)

// Role is the membership table touched by MemberAdded and MemberRemoved.
type Role int

const (
	Subscriber Role = iota
	Moderator
	Banned
)

// Event describes one relation mutation. Only the fields relevant to Kind are
// set, use the constructors below.
type Event struct {
	Kind Kind

	UserID      string // actor of the relation: owner, follower, member, voter
	TargetID    string // followed user, new owner, voted or bookmarked entity
	CommunityID string
	PostID      string
	ParentID    string // parent comment of a reply

	Role      Role
	Direction entity.VoteDirection // new direction for a flip
}

func NewPostCreated(post entity.Post) Event {
	return Event{Kind: PostCreated, UserID: post.OwnerUserID, CommunityID: post.CommunityID, TargetID: post.ID}
}

func NewPostDeleted(post entity.Post) Event {
	return Event{Kind: PostDeleted, UserID: post.OwnerUserID, CommunityID: post.CommunityID, TargetID: post.ID}
}

func NewCommentCreated(comment entity.Comment, communityID string) Event {
	return Event{
		Kind:        CommentCreated,
		UserID:      comment.OwnerUserID,
		TargetID:    comment.ID,
		CommunityID: communityID,
		PostID:      comment.PostID,
		ParentID:    comment.ParentID.String,
	}
}

func NewCommentDeleted(comment entity.Comment, communityID string) Event {
	ev := NewCommentCreated(comment, communityID)
	ev.Kind = CommentDeleted
	return ev
}

func NewCommunityCreated(community entity.Community) Event {
	return Event{Kind: CommunityCreated, UserID: community.OwnerUserID, CommunityID: community.ID}
}

func NewCommunityDeleted(community entity.Community) Event {
	return Event{Kind: CommunityDeleted, UserID: community.OwnerUserID, CommunityID: community.ID}
}

func NewOwnershipTransferred(communityID, oldOwnerID, newOwnerID string) Event {
	return Event{Kind: OwnershipTransferred, UserID: oldOwnerID, TargetID: newOwnerID, CommunityID: communityID}
}

func NewFollowCreated(followerID, followedID string) Event {
	return Event{Kind: FollowCreated, UserID: followerID, TargetID: followedID}
}

func NewFollowDeleted(followerID, followedID string) Event {
	return Event{Kind: FollowDeleted, UserID: followerID, TargetID: followedID}
}

func NewMemberAdded(role Role, communityID, userID string) Event {
	return Event{Kind: MemberAdded, Role: role, CommunityID: communityID, UserID: userID}
}

func NewMemberRemoved(role Role, communityID, userID string) Event {
	return Event{Kind: MemberRemoved, Role: role, CommunityID: communityID, UserID: userID}
}

func NewPostVoteCreated(postID string, direction entity.VoteDirection) Event {
	return Event{Kind: PostVoteCreated, TargetID: postID, Direction: direction}
}

func NewPostVoteDeleted(postID string, direction entity.VoteDirection) Event {
	return Event{Kind: PostVoteDeleted, TargetID: postID, Direction: direction}
}

// NewPostVoteFlipped takes the direction the vote is flipped to.
func NewPostVoteFlipped(postID string, direction entity.VoteDirection) Event {
	return Event{Kind: PostVoteFlipped, TargetID: postID, Direction: direction}
}

func NewCommentVoteCreated(commentID string, direction entity.VoteDirection) Event {
	return Event{Kind: CommentVoteCreated, TargetID: commentID, Direction: direction}
}

func NewCommentVoteDeleted(commentID string, direction entity.VoteDirection) Event {
	return Event{Kind: CommentVoteDeleted, TargetID: commentID, Direction: direction}
}

func NewCommentVoteFlipped(commentID string, direction entity.VoteDirection) Event {
	return Event{Kind: CommentVoteFlipped, TargetID: commentID, Direction: direction}
}

func NewPostBookmarkCreated(postID string) Event {
	return Event{Kind: PostBookmarkCreated, TargetID: postID}
}

func NewPostBookmarkDeleted(postID string) Event {
	return Event{Kind: PostBookmarkDeleted, TargetID: postID}
}

func NewCommentBookmarkCreated(commentID string) Event {
	return Event{Kind: CommentBookmarkCreated, TargetID: commentID}
}

func NewCommentBookmarkDeleted(commentID string) Event {
	return Event{Kind: CommentBookmarkDeleted, TargetID: commentID}
}
