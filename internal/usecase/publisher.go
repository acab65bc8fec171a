package usecase

import "skillmates-backend/pkg/realtime"

// Publisher pushes realtime events to connected users.
type Publisher interface {
	Publish(event realtime.Event, userIDs ...string)
}

type noopPublisher struct{}

func (noopPublisher) Publish(realtime.Event, ...string) {}

func publisherOrNoop(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
