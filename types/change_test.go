package types

import (
	"testing"

	"github.com/koligo/koligo/id"
)

func TestChangeFilter_Validate(t *testing.T) {
	value := id.Generate()

	tt := []struct {
		name    string
		in      ChangeFilter
		wantErr bool
	}{
		{name: "messages_by_conversation", in: ChangeFilter{Table: TableMessages, Column: "conversation_id", Value: value}},
		{name: "messages_by_participant", in: ChangeFilter{Table: TableMessages, Column: "participant_id", Value: value}},
		{name: "tracking_by_assignment", in: ChangeFilter{Table: TableTrackingEvents, Column: "assignment_id", Value: value}},
		{name: "notifications_by_user", in: ChangeFilter{Table: TableNotifications, Column: "user_id", Value: value}},
		{name: "unknown_table", in: ChangeFilter{Table: "shipments", Column: "id", Value: value}, wantErr: true},
		{name: "unknown_column", in: ChangeFilter{Table: TableMessages, Column: "sender_id", Value: value}, wantErr: true},
		{name: "invalid_value", in: ChangeFilter{Table: TableMessages, Column: "conversation_id", Value: "x"}, wantErr: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("want error %v; got %v", tc.wantErr, err)
			}
		})
	}
}

func TestChange_Decode(t *testing.T) {
	msg := Message{ID: id.Generate(), Content: "hi"}
	c, err := NewChange(TableMessages, ChangeKindInsert, msg)
	if err != nil {
		t.Fatalf("NewChange: %v", err)
	}

	var got Message
	if err := c.Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.ID != msg.ID || got.Content != msg.Content {
		t.Errorf("want %+v; got %+v", msg, got)
	}

	f := ChangeFilter{Table: TableMessages, Column: "conversation_id", Value: "abc"}
	if got, want := f.Topic(), "changes.messages.conversation_id.abc"; got != want {
		t.Errorf("want topic %q; got %q", want, got)
	}
}
