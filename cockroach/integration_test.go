package cockroach

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koligo/koligo/cockroach/migrator"
	"github.com/koligo/koligo/id"
	"github.com/koligo/koligo/types"
	"github.com/ory/dockertest/v3"
)

var (
	testDB        *pgxpool.Pool
	testCockroach *Cockroach
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	var skipIntegration bool
	flag.BoolVar(&skipIntegration, "skip-integration", false, "Skip integration tests docker setup")
	flag.Parse()

	if skipIntegration || testing.Short() {
		return m.Run()
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		fmt.Printf("could not create docker pool: %v\n", err)
		return 1
	}

	var cleanup func() error
	testDB, cleanup, err = setupTestDB(pool)
	if err != nil {
		fmt.Printf("could not setup test db: %v\n", err)
		return 1
	}

	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("could not cleanup cockroach container: %v\n", err)
		}
	}()

	if err := migrator.Migrate(context.Background(), testDB, MigrationsFS); err != nil {
		fmt.Printf("could not migrate: %v\n", err)
		return 1
	}

	testCockroach = New(testDB)

	return m.Run()
}

func setupTestDB(pool *dockertest.Pool) (*pgxpool.Pool, func() error, error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "cockroachdb/cockroach",
		Tag:        "latest",
		Cmd:        []string{"start-single-node", "--insecure"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create cockroach resource: %w", err)
	}

	var db *pgxpool.Pool
	err = pool.Retry(func() (err error) {
		hostPort := resource.GetHostPort("26257/tcp")
		db, err = pgxpool.New(context.Background(), "postgresql://root@"+hostPort+"/defaultdb?sslmode=disable")
		if err != nil {
			return fmt.Errorf("could not open db: %w", err)
		}

		if err = db.Ping(context.Background()); err != nil {
			return fmt.Errorf("could not ping db: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return db, func() error {
		return pool.Purge(resource)
	}, nil
}

func skipIfNoDB(t *testing.T) {
	t.Helper()
	if testCockroach == nil {
		t.Skip("integration tests disabled")
	}
}

func genUser(t *testing.T) types.User {
	t.Helper()

	ctx := context.Background()
	user, err := testCockroach.UpsertUser(ctx, types.DevLogin{Username: "u" + id.Generate()[8:]}, types.RoleUser)
	if err != nil {
		t.Fatalf("could not create user: %v", err)
	}

	return user
}

// genAssignment inserts an assignment with its shipment directly since
// neither has a creation path in the store.
func genAssignment(t *testing.T, sender, traveler types.User, payment types.PaymentStatus) types.Assignment {
	t.Helper()

	ctx := context.Background()
	shipmentID := id.Generate()
	_, err := testDB.Exec(ctx, `INSERT INTO shipments (id, sender_id, title, status) VALUES (@id, @sender_id, 'box', 'matched')`, pgx.NamedArgs{
		"id":        shipmentID,
		"sender_id": sender.ID,
	})
	if err != nil {
		t.Fatalf("could not insert shipment: %v", err)
	}

	assignmentID := id.Generate()
	_, err = testDB.Exec(ctx, `
		INSERT INTO assignments (id, shipment_id, sender_id, traveler_id, payment_status)
		VALUES (@id, @shipment_id, @sender_id, @traveler_id, @payment_status)
	`, pgx.NamedArgs{
		"id":             assignmentID,
		"shipment_id":    shipmentID,
		"sender_id":      sender.ID,
		"traveler_id":    traveler.ID,
		"payment_status": payment,
	})
	if err != nil {
		t.Fatalf("could not insert assignment: %v", err)
	}

	a, err := testCockroach.Assignment(ctx, assignmentID)
	if err != nil {
		t.Fatalf("could not fetch assignment: %v", err)
	}

	return a
}

func genConversation(t *testing.T, a, b types.User) types.Conversation {
	t.Helper()

	in := types.StartConversation{OtherUserID: b.ID}
	in.SetLoggedInUserID(a.ID)
	c, err := testCockroach.StartConversation(context.Background(), in)
	if err != nil {
		t.Fatalf("could not start conversation: %v", err)
	}

	return c
}

func genMessage(t *testing.T, conversationID string, sender types.User, content string) types.Message {
	t.Helper()

	in := types.CreateMessage{ConversationID: conversationID, Content: content}
	in.SetLoggedInUserID(sender.ID)
	m, err := testCockroach.CreateMessage(context.Background(), in)
	if err != nil {
		t.Fatalf("could not create message: %v", err)
	}

	return m
}

func TestCockroach_StartConversation(t *testing.T) {
	skipIfNoDB(t)

	ctx := context.Background()
	alice := genUser(t)
	bob := genUser(t)

	t.Run("same_pair_either_direction", func(t *testing.T) {
		first := genConversation(t, alice, bob)
		second := genConversation(t, bob, alice)
		if first.ID != second.ID {
			t.Errorf("expected same conversation, got %q and %q", first.ID, second.ID)
		}
	})

	t.Run("assignment_context_is_distinct", func(t *testing.T) {
		assignment := genAssignment(t, alice, bob, types.PaymentStatusPending)

		in := types.StartConversation{OtherUserID: bob.ID, AssignmentID: &assignment.ID}
		in.SetLoggedInUserID(alice.ID)
		scoped, err := testCockroach.StartConversation(ctx, in)
		if err != nil {
			t.Fatal(err)
		}

		plain := genConversation(t, alice, bob)
		if scoped.ID == plain.ID {
			t.Error("expected a different conversation per assignment")
		}
	})

	t.Run("support_is_unique_per_user", func(t *testing.T) {
		in := types.SupportConversation{}
		in.SetLoggedInUserID(alice.ID)

		first, err := testCockroach.SupportConversation(ctx, in)
		if err != nil {
			t.Fatal(err)
		}

		second, err := testCockroach.SupportConversation(ctx, in)
		if err != nil {
			t.Fatal(err)
		}

		if first.ID != second.ID {
			t.Errorf("expected one support conversation, got %q and %q", first.ID, second.ID)
		}
		if first.ParticipantB != nil {
			t.Errorf("support conversation should have no second participant")
		}
	})
}

func TestCockroach_MarkConversationRead(t *testing.T) {
	skipIfNoDB(t)

	ctx := context.Background()
	alice := genUser(t)
	bob := genUser(t)
	conversation := genConversation(t, alice, bob)

	fromBob1 := genMessage(t, conversation.ID, bob, "one")
	fromAlice := genMessage(t, conversation.ID, alice, "two")

	markAsAlice := types.MarkConversationRead{ConversationID: conversation.ID}
	markAsAlice.SetLoggedInUserID(alice.ID)

	read, err := testCockroach.MarkConversationRead(ctx, markAsAlice)
	if err != nil {
		t.Fatal(err)
	}

	if len(read) != 1 || read[0].ID != fromBob1.ID {
		t.Fatalf("expected only %q marked, got %+v", fromBob1.ID, read)
	}

	firstReadAt := *read[0].ReadAt

	fromBob2 := genMessage(t, conversation.ID, bob, "three")

	read, err = testCockroach.MarkConversationRead(ctx, markAsAlice)
	if err != nil {
		t.Fatal(err)
	}

	if len(read) != 1 || read[0].ID != fromBob2.ID {
		t.Fatalf("expected only %q marked, got %+v", fromBob2.ID, read)
	}

	messages, err := testCockroach.Messages(ctx, types.ListMessages{ConversationID: conversation.ID})
	if err != nil {
		t.Fatal(err)
	}

	for _, m := range messages {
		switch m.ID {
		case fromBob1.ID:
			if m.ReadAt == nil || !m.ReadAt.Equal(firstReadAt) {
				t.Errorf("read_at of an already read message changed")
			}
		case fromAlice.ID:
			if m.ReadAt != nil {
				t.Errorf("own message should stay unread")
			}
		}
	}
}

func TestCockroach_UnreadMessagesCount(t *testing.T) {
	skipIfNoDB(t)

	ctx := context.Background()
	alice := genUser(t)
	bob := genUser(t)
	carol := genUser(t)

	withBob := genConversation(t, alice, bob)
	withCarol := genConversation(t, alice, carol)

	genMessage(t, withBob.ID, bob, "hi")
	genMessage(t, withBob.ID, bob, "there")
	genMessage(t, withCarol.ID, carol, "hey")
	genMessage(t, withCarol.ID, alice, "mine")

	list := types.ListConversations{}
	list.SetLoggedInUser(alice)
	ids, err := testCockroach.ConversationIDs(ctx, list)
	if err != nil {
		t.Fatal(err)
	}

	if len(ids) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(ids))
	}

	in := types.CountUnreadMessages{ConversationIDs: ids}
	in.SetLoggedInUserID(alice.ID)
	got, err := testCockroach.UnreadMessagesCount(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	if got != 3 {
		t.Errorf("expected 3 unread, got %d", got)
	}
}

func TestCockroach_ConfirmSteps(t *testing.T) {
	skipIfNoDB(t)

	ctx := context.Background()
	sender := genUser(t)
	traveler := genUser(t)

	t.Run("pickup_requires_released_payment", func(t *testing.T) {
		a := genAssignment(t, sender, traveler, types.PaymentStatusPending)

		in := types.ConfirmStep{AssignmentID: a.ID}
		in.SetLoggedInUserID(traveler.ID)
		_, err := testCockroach.ConfirmPickup(ctx, in)
		if !errors.Is(err, errStepAlreadyTaken) {
			t.Errorf("expected conflict, got %v", err)
		}
	})

	t.Run("full_lifecycle", func(t *testing.T) {
		a := genAssignment(t, sender, traveler, types.PaymentStatusPending)

		a, err := testCockroach.ReleasePayment(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}

		if got := a.Status(); got != types.AssignmentStatusReadyForPickup {
			t.Fatalf("expected ready_for_pickup, got %s", got)
		}

		in := types.ConfirmStep{AssignmentID: a.ID}
		in.SetLoggedInUserID(traveler.ID)

		picked, err := testCockroach.ConfirmPickup(ctx, in)
		if err != nil {
			t.Fatal(err)
		}

		if got := picked.Assignment.Status(); got != types.AssignmentStatusInTransit {
			t.Errorf("expected in_transit, got %s", got)
		}
		if picked.Event.Kind != types.TrackingEventKindPickup {
			t.Errorf("expected pickup event, got %s", picked.Event.Kind)
		}

		if _, err := testCockroach.ConfirmPickup(ctx, in); !errors.Is(err, errStepAlreadyTaken) {
			t.Errorf("expected second pickup to conflict, got %v", err)
		}

		delivered, err := testCockroach.ConfirmDelivery(ctx, in)
		if err != nil {
			t.Fatal(err)
		}

		if got := delivered.Assignment.Status(); got != types.AssignmentStatusDelivered {
			t.Errorf("expected delivered, got %s", got)
		}

		events, err := testCockroach.TrackingEvents(ctx, types.ListTrackingEvents{AssignmentID: a.ID})
		if err != nil {
			t.Fatal(err)
		}

		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[0].Kind != types.TrackingEventKindPickup || events[1].Kind != types.TrackingEventKindDelivered {
			t.Errorf("unexpected timeline order: %s, %s", events[0].Kind, events[1].Kind)
		}

		latest, err := testCockroach.LatestTrackingEvent(ctx, a.ID)
		if err != nil {
			t.Fatal(err)
		}

		if latest.ID != events[1].ID {
			t.Errorf("expected latest to be the delivered event")
		}

		shipment, err := testCockroach.Shipment(ctx, *a.ShipmentID)
		if err != nil {
			t.Fatal(err)
		}

		if shipment.Status != types.ShipmentStatusDelivered {
			t.Errorf("expected delivered shipment, got %s", shipment.Status)
		}
	})
}

func TestCockroach_DeleteShipment(t *testing.T) {
	skipIfNoDB(t)

	ctx := context.Background()
	sender := genUser(t)
	traveler := genUser(t)
	a := genAssignment(t, sender, traveler, types.PaymentStatusReleased)

	in := types.DeleteShipment{ShipmentID: *a.ShipmentID}
	in.SetLoggedInUserID(sender.ID)

	if err := testCockroach.DeleteShipment(ctx, in); !errors.Is(err, errShipmentNotDelivered) {
		t.Fatalf("expected not delivered rejection, got %v", err)
	}

	if _, err := testDB.Exec(ctx, `UPDATE shipments SET status = 'delivered' WHERE id = $1`, *a.ShipmentID); err != nil {
		t.Fatal(err)
	}

	other := types.DeleteShipment{ShipmentID: *a.ShipmentID}
	other.SetLoggedInUserID(traveler.ID)
	if err := testCockroach.DeleteShipment(ctx, other); err == nil {
		t.Fatal("expected non owner to be rejected")
	}

	if err := testCockroach.DeleteShipment(ctx, in); err != nil {
		t.Fatalf("expected delivered shipment to be deleted, got %v", err)
	}
}

func TestCockroach_Notifications(t *testing.T) {
	skipIfNoDB(t)

	ctx := context.Background()
	user := genUser(t)

	for i := range 3 {
		_, err := testCockroach.CreateNotification(ctx, types.CreateNotification{
			UserID: user.ID,
			Title:  fmt.Sprintf("n%d", i),
			Kind:   types.NotificationKindInfo,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	first := uint(2)
	list := types.ListNotifications{PageArgs: types.PageArgs{First: &first}}
	list.SetUserID(user.ID)

	page, err := testCockroach.Notifications(ctx, list)
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 2 || !page.PageInfo.HasNextPage {
		t.Fatalf("expected a first page of 2 with a next page, got %d", len(page.Items))
	}

	list.PageArgs.After = page.PageInfo.EndCursor
	next, err := testCockroach.Notifications(ctx, list)
	if err != nil {
		t.Fatal(err)
	}

	if len(next.Items) != 1 || next.PageInfo.HasNextPage {
		t.Fatalf("expected a last page of 1, got %d", len(next.Items))
	}

	count, err := testCockroach.UnreadNotificationsCount(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if count != 3 {
		t.Errorf("expected 3 unread, got %d", count)
	}

	read, err := testCockroach.ReadAllNotifications(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if len(read) != 3 {
		t.Errorf("expected 3 notifications flipped, got %d", len(read))
	}

	count, err = testCockroach.UnreadNotificationsCount(ctx, user.ID)
	if err != nil {
		t.Fatal(err)
	}

	if count != 0 {
		t.Errorf("expected 0 unread, got %d", count)
	}
}
