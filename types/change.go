package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/validator"
)

type Table string

const (
	TableConversations  Table = "conversations"
	TableMessages       Table = "messages"
	TableTrackingEvents Table = "tracking_events"
	TableAssignments    Table = "assignments"
	TableNotifications  Table = "notifications"
)

func (t Table) String() string {
	return string(t)
}

// filterColumns lists the equality filters a change-feed can be opened with.
// participant_id is not a real column: it scopes a feed to the conversations
// a user takes part in.
var filterColumns = map[Table][]string{
	TableConversations:  {"participant_id"},
	TableMessages:       {"conversation_id", "participant_id"},
	TableTrackingEvents: {"assignment_id"},
	TableAssignments:    {"id"},
	TableNotifications:  {"user_id"},
}

type ChangeKind string

const (
	ChangeKindInsert ChangeKind = "insert"
	ChangeKindUpdate ChangeKind = "update"
)

func (k ChangeKind) String() string {
	return string(k)
}

// ChangeFilter binds a change-feed to one (table, column = value) scope.
type ChangeFilter struct {
	Table  Table  `json:"table"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (f ChangeFilter) String() string {
	return fmt.Sprintf("%s.%s=%s", f.Table, f.Column, f.Value)
}

// Topic is the pubsub topic changes matching the filter are published to.
func (f ChangeFilter) Topic() string {
	return "changes." + string(f.Table) + "." + f.Column + "." + f.Value
}

func (f *ChangeFilter) Validate() error {
	v := validator.New()

	columns, ok := filterColumns[f.Table]
	if !ok {
		v.AddError("Table", "Table is not subscribable")
		return v.AsError()
	}

	var found bool
	for _, c := range columns {
		if c == f.Column {
			found = true
			break
		}
	}
	if !found {
		v.AddError("Column", "Column is not subscribable")
	}

	if !id.Valid(f.Value) {
		v.AddError("Value", "Value must be a valid ID")
	}

	return v.AsError()
}

type Change struct {
	Table       Table           `json:"table" msgpack:"table"`
	Kind        ChangeKind      `json:"kind" msgpack:"kind"`
	Record      json.RawMessage `json:"record" msgpack:"record"`
	CommittedAt time.Time       `json:"committedAt" msgpack:"committed_at"`
}

func NewChange(table Table, kind ChangeKind, record any) (Change, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return Change{}, fmt.Errorf("json marshal %s change record: %w", table, err)
	}

	return Change{
		Table:       table,
		Kind:        kind,
		Record:      b,
		CommittedAt: time.Now(),
	}, nil
}

// Decode unmarshals the changed record into v.
func (c Change) Decode(v any) error {
	if err := json.Unmarshal(c.Record, v); err != nil {
		return fmt.Errorf("json unmarshal %s change record: %w", c.Table, err)
	}
	return nil
}
