package main

import (
	"bytes"
	"encoding/json"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"skillsync/domain"
	"testing"
	"time"
)

func TestLoadConversations_Skips_Indexes(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	conversation := domain.NewConversation("c1", []string{"alice", "bob"}, nil, at)
	conversation.Append(domain.NewMessage("alice", "hello", at))
	data, err := json.Marshal(conversation)
	req.NoError(err)

	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("conv:c1"), data); err != nil {
			return err
		}
		return txn.Set([]byte("conv_pair:alice|bob|-"), []byte("c1"))
	}))

	conversations, err := loadConversations(db, 0)

	req.NoError(err)
	req.Len(conversations, 1)
	req.Equal("c1", conversations[0].ID)
}

func TestRender(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	conversation := domain.NewConversation("c1", []string{"alice", "bob"}, nil, at)
	conversation.Append(domain.NewMessage("alice", "hello", at))

	var out bytes.Buffer
	render(&out, []domain.Conversation{conversation}, false)

	req.Contains(out.String(), "1 conversations")
	req.Contains(out.String(), "alice: hello")
	req.Contains(out.String(), "bob=1")
	req.Contains(out.String(), "alice=0")
}
