package session

import (
	"context"
	"time"
)

// DedupeTTL bounds how long a platform message id is remembered for
// duplicate-delivery suppression.
const DedupeTTL = 10 * time.Minute

// Store holds conversation state keyed by sender id. Implementations must
// be safe for concurrent use; the dispatcher additionally serializes
// transitions per sender through a KeyLock.
type Store interface {
	// Get returns the visitor session for the sender, or nil if unseen.
	Get(ctx context.Context, senderID string) (*Session, error)
	// Put upserts a visitor session.
	Put(ctx context.Context, s *Session) error
	// GetAdmin returns the admin session for the sender, or nil if unseen.
	GetAdmin(ctx context.Context, senderID string) (*AdminSession, error)
	// PutAdmin upserts an admin session.
	PutAdmin(ctx context.Context, s *AdminSession) error
	// MarkSeen records a platform message id and reports whether this is
	// its first sighting within the dedupe window.
	MarkSeen(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
}
