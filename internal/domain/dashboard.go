package domain

import "context"

type DashboardStats struct {
	Connections     int `json:"connections"`
	Chats           int `json:"chats"`
	PendingRequests int `json:"pending_requests"`
}

type DashboardUsecase interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}
