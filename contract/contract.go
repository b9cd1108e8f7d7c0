//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"skillsync/domain"
	"skillsync/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// The supervisor recovers panics and restarts it
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// used for logging during supervision.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the handle of one live realtime connection.
type EventSink interface {
	ID() string
	Send(ctx context.Context, frame event.Frame) error
}

// Entry is one online user as listed by the registry.
type Entry struct {
	UserID string
	Sink   EventSink
}

type IRegistry interface {
	Register(userID string, sink EventSink)
	Unregister(userID string)
	Release(userID string, sink EventSink) bool
	Lookup(userID string) (EventSink, bool)
	ListAll() []Entry
}

// ConversationFinder is the read side the gateway needs to resolve recipients.
type ConversationFinder interface {
	GetConversation(id string) (domain.Conversation, error)
}
