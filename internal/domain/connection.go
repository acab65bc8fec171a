package domain

import (
	"context"
	"time"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// ViewerStatus describes the relationship between the caller and another member.
type ViewerStatus string

const (
	ViewerNotLoggedIn     ViewerStatus = "not_logged_in"
	ViewerOwnProfile      ViewerStatus = "own_profile"
	ViewerConnect         ViewerStatus = "connect"
	ViewerRequestSent     ViewerStatus = "request_sent"
	ViewerRequestReceived ViewerStatus = "request_received"
	ViewerSkillmates      ViewerStatus = "skillmates"
)

type Connection struct {
	ID          string           `json:"id"`
	FromUserID  string           `json:"from_user_id"`
	FromName    string           `json:"from_name"`
	ToUserID    string           `json:"to_user_id"`
	ToName      string           `json:"to_name"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
}

// Other returns the id of the party that is not userID.
func (c *Connection) Other(userID string) string {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}

// ResolveViewerStatus derives how viewerID relates to targetID from the
// connections between them. Accepted wins over pending, and a pending request
// received wins over one sent. Rejected connections are ignored.
func ResolveViewerStatus(viewerID, targetID string, conns []Connection) ViewerStatus {
	if viewerID == "" {
		return ViewerNotLoggedIn
	}
	if viewerID == targetID {
		return ViewerOwnProfile
	}

	status := ViewerConnect
	for _, c := range conns {
		if c.Other(viewerID) != targetID || (c.FromUserID != viewerID && c.ToUserID != viewerID) {
			continue
		}
		switch {
		case c.Status == ConnectionAccepted:
			return ViewerSkillmates
		case c.Status == ConnectionPending && c.ToUserID == viewerID:
			status = ViewerRequestReceived
		case c.Status == ConnectionPending && status == ViewerConnect:
			status = ViewerRequestSent
		}
	}
	return status
}

type SendConnectionRequest struct {
	ToUserID string `json:"to_user_id" validate:"required,uuid"`
}

type RespondConnectionRequest struct {
	Status ConnectionStatus `json:"status" validate:"required,oneof=accepted rejected"`
}

// Skillmate is an accepted connection with the other member's summary.
type Skillmate struct {
	Connection
	Member MemberSummary `json:"member"`
}

type ConnectionRepository interface {
	Create(ctx context.Context, conn *Connection) error
	GetByID(ctx context.Context, id string) (*Connection, error)
	// Between returns every connection between a and b in either direction.
	Between(ctx context.Context, a, b string) ([]Connection, error)
	// ListForUser returns pending and accepted connections involving userID.
	ListForUser(ctx context.Context, userID string) ([]Connection, error)
	ListIncomingPending(ctx context.Context, userID string) ([]Connection, error)
	ListAccepted(ctx context.Context, userID string) ([]Connection, error)
	// UpdateStatus moves a pending connection to status; returns ErrNotFound when it is no longer pending.
	UpdateStatus(ctx context.Context, id string, status ConnectionStatus, respondedAt time.Time) error
	CountAccepted(ctx context.Context, userID string) (int, error)
	CountIncomingPending(ctx context.Context, userID string) (int, error)
}

type ConnectionUsecase interface {
	SendRequest(ctx context.Context, toUserID string) (*Connection, error)
	ListIncoming(ctx context.Context) ([]Connection, error)
	Respond(ctx context.Context, id string, status ConnectionStatus) (*Connection, error)
	ListSkillmates(ctx context.Context) ([]Skillmate, error)
}
