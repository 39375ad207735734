package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionMatches(t *testing.T) {
	insert := ChangeEvent{
		Table:   TableMessages,
		Type:    EventInsert,
		Columns: map[string]string{"sender_id": "a", "receiver_id": "b"},
	}

	tests := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{"other table", Subscription{Table: TableBans}, false},
		{"no filters", Subscription{Table: TableMessages}, true},
		{"wildcard event", Subscription{Table: TableMessages, Event: "*"}, true},
		{"event mismatch", Subscription{Table: TableMessages, Event: EventDelete}, false},
		{"pair filter forward", Subscription{Table: TableMessages, Filters: PairFilter("a", "b")}, true},
		{"pair filter reverse", Subscription{Table: TableMessages, Filters: PairFilter("b", "a")}, true},
		{"pair filter other pair", Subscription{Table: TableMessages, Filters: PairFilter("a", "c")}, false},
		{"unknown column", Subscription{Table: TableMessages, Filters: []map[string]string{{"user_id": "a"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Matches(insert))
		})
	}
}
