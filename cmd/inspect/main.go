package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"skillsync/domain"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const conversationPrefix = "conv:"

func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	limit := flag.Int("limit", 0, "Maximum number of conversations, 0 means all")
	colours := flag.Bool("colours", true, "Colour the output")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	conversations, err := loadConversations(db, *limit)
	if err != nil {
		log.Fatal(err)
	}
	render(os.Stdout, conversations, *colours)
}

// loadConversations scans conversation records, skipping the pair and member indexes.
func loadConversations(db *badger.DB, limit int) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(conversationPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(conversations) >= limit {
				return nil
			}
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var c domain.Conversation
				if err := json.Unmarshal(v, &c); err != nil {
					fmt.Fprintf(os.Stderr, "Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}
				conversations = append(conversations, c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return conversations, err
}

func render(w io.Writer, conversations []domain.Conversation, colours bool) {
	title := fmt.Sprintf("  ====== %d conversations ======", len(conversations))
	if colours {
		title = color.New(color.BgBlack, color.FgGreen).Render(title)
	}
	fmt.Fprintln(w, title)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Participants", "Task", "Messages", "Unread", "Last message", "Updated"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, c := range conversations {
		table.Append(toRow(c, colours))
	}
	table.Render()
}

func toRow(c domain.Conversation, colours bool) []string {
	displayID := c.ID
	if len(displayID) > 8 {
		displayID = displayID[:8]
	}
	task := "-"
	if c.TaskID != nil {
		task = *c.TaskID
	}
	last := ""
	if c.LastMessage != nil {
		last = c.LastMessage.SenderID + ": " + c.LastMessage.Content
	}

	unread := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		count := c.UnreadCountFor(p)
		cell := p + "=" + strconv.Itoa(count)
		if colours && count > 0 {
			cell = color.Yellow.Render(cell)
		}
		unread = append(unread, cell)
	}

	return []string{
		displayID,
		strings.Join(c.Participants, ", "),
		task,
		strconv.Itoa(len(c.Messages)),
		strings.Join(unread, " "),
		last,
		c.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
