package models

import "time"

// TargetKind discriminates what a Relation points at. It is the single
// discriminant of the relation union: a channel target makes the relation a
// subscription, every other kind makes it a like.
type TargetKind string

const (
	// TargetVideo marks a like on a video.
	TargetVideo TargetKind = "video"
	// TargetComment marks a like on a comment.
	TargetComment TargetKind = "comment"
	// TargetTweet marks a like on a tweet.
	TargetTweet TargetKind = "tweet"
	// TargetChannel marks a subscription to a channel (a User).
	TargetChannel TargetKind = "channel"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet, TargetChannel:
		return true
	}
	return false
}

// RelationKind is the coarse family of a relation.
type RelationKind string

const (
	// RelationLike covers video, comment and tweet targets.
	RelationLike RelationKind = "like"
	// RelationSubscription covers channel targets.
	RelationSubscription RelationKind = "subscription"
)

// Relation is a toggle relation: its existence encodes the "on" state
// (liked, subscribed) and toggling off hard-deletes the row. The unique
// index on (actor_id, target_kind, target_id) guarantees at most one live
// row per pair; concurrent toggles surface as an insert conflict instead of
// a silent duplicate.
type Relation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ActorID    uint       `gorm:"not null;uniqueIndex:idx_actor_target,priority:1" json:"actor_id"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_actor_target,priority:2" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_actor_target,priority:3" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`

	Actor User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

// Kind derives the relation family from the target kind.
func (r *Relation) Kind() RelationKind {
	if r.TargetKind == TargetChannel {
		return RelationSubscription
	}
	return RelationLike
}

// ToggleState reports which side of a toggle was taken.
type ToggleState string

const (
	// ToggleAdded means the relation did not exist and was created.
	ToggleAdded ToggleState = "added"
	// ToggleRemoved means the relation existed and was deleted.
	ToggleRemoved ToggleState = "removed"
)

// ToggleResult is the outcome of a relation toggle. Record is the created
// relation when State is ToggleAdded, nil when it was removed.
type ToggleResult struct {
	State  ToggleState `json:"state"`
	Record *Relation   `json:"record,omitempty"`
}
