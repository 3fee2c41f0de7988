//go:build functional

package functional

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// dialEvents connects to the event feed and waits until the hub registers the subscriber.
func dialEvents(t *testing.T, ts *TestServer, query string, subscribers int) *websocket.Conn {
	t.Helper()

	dialer := websocket.Dialer{HandshakeTimeout: DefaultWebSocketTimeout}
	conn, resp, err := dialer.Dial(ts.WSURL+"/ws"+query, nil)
	if err != nil {
		t.Fatalf("Failed to dial event feed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })

	deadline := time.Now().Add(DefaultWebSocketTimeout)
	for ts.Inventory.Events.Subscribers() < subscribers {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %d event subscribers", subscribers)
		}
		time.Sleep(10 * time.Millisecond)
	}

	return conn
}

// readEvent reads the next event from the feed.
func readEvent(t *testing.T, conn *websocket.Conn) model.Event {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(DefaultWebSocketTimeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}

	var event model.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	return event
}

func assertEvent(t *testing.T, got model.Event, eventType model.EventType, kind string, id int) {
	t.Helper()

	if got.Type != eventType || got.Kind != kind || got.ID != id {
		t.Errorf("Expected %s %s %d, got %s %s %d", eventType, kind, id, got.Type, got.Kind, got.ID)
	}
	if got.Timestamp.IsZero() {
		t.Error("Expected event timestamp to be set")
	}
}

// TestFunctional_WS_001_ProductEvents streams events for a product lifecycle.
// FT-WS-001: Product lifecycle events (created, replaced, deleted)
func TestFunctional_WS_001_ProductEvents(t *testing.T) {
	LogTestStart(t, "FT-WS-001", "Product lifecycle events")
	defer LogTestEnd(t, "FT-WS-001")

	ts := startServer(t)
	conn := dialEvents(t, ts, "", 1)
	products := ts.Client().Products()
	ctx := requestContext(t)

	// Act
	id, err := products.StoreNewProduct(ctx, model.Product{Name: "Widget", Type: model.ProductTypeStandard})
	if err != nil {
		t.Fatalf("StoreNewProduct failed: %v", err)
	}
	if err := products.UpdateProduct(ctx, model.Product{ID: intPtr(id), Name: "Widget", Type: model.ProductTypePremium}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if err := products.DeleteProduct(ctx, id); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}

	// Assert
	assertEvent(t, readEvent(t, conn), model.EventCreated, model.KindProduct, id)
	assertEvent(t, readEvent(t, conn), model.EventReplaced, model.KindProduct, id)
	assertEvent(t, readEvent(t, conn), model.EventDeleted, model.KindProduct, id)
}

// TestFunctional_WS_002_RejectedMutationsSilent checks that failed operations publish nothing.
// FT-WS-002: Rejected mutations publish no events
func TestFunctional_WS_002_RejectedMutationsSilent(t *testing.T) {
	LogTestStart(t, "FT-WS-002", "Rejected mutations publish no events")
	defer LogTestEnd(t, "FT-WS-002")

	ts := startServer(t)
	conn := dialEvents(t, ts, "", 1)
	records := ts.Client().Records()
	ctx := requestContext(t)

	// Act
	if _, err := records.StoreNewRecord(ctx, model.Record{Title: "No Artist"}); err == nil {
		t.Fatal("Expected record without artist to be rejected")
	}
	if err := records.DeleteRecord(ctx, 42); err == nil {
		t.Fatal("Expected delete of absent record to fail")
	}
	id, err := records.StoreNewRecord(ctx, model.Record{Title: "Kind of Blue", Artist: "Miles Davis"})
	if err != nil {
		t.Fatalf("StoreNewRecord failed: %v", err)
	}

	// Assert
	assertEvent(t, readEvent(t, conn), model.EventCreated, model.KindRecord, id)
}

// TestFunctional_WS_003_Broadcast delivers each event to every subscriber.
// FT-WS-003: Broadcast to multiple subscribers
func TestFunctional_WS_003_Broadcast(t *testing.T) {
	LogTestStart(t, "FT-WS-003", "Broadcast to multiple subscribers")
	defer LogTestEnd(t, "FT-WS-003")

	ts := startServer(t)
	first := dialEvents(t, ts, "", 1)
	second := dialEvents(t, ts, "", 2)
	ctx := requestContext(t)

	// Act
	id, err := ts.Client().Products().StoreNewProduct(ctx, model.Product{Name: "Widget", Type: model.ProductTypeLimited})
	if err != nil {
		t.Fatalf("StoreNewProduct failed: %v", err)
	}

	// Assert
	assertEvent(t, readEvent(t, first), model.EventCreated, model.KindProduct, id)
	assertEvent(t, readEvent(t, second), model.EventCreated, model.KindProduct, id)
}

// TestFunctional_WS_004_ShutdownClosesFeed checks that shutdown closes open feed connections.
// FT-WS-004: Server shutdown closes event feed connections
func TestFunctional_WS_004_ShutdownClosesFeed(t *testing.T) {
	LogTestStart(t, "FT-WS-004", "Server shutdown closes event feed connections")
	defer LogTestEnd(t, "FT-WS-004")

	ts := NewTestServer(t)
	ts.Start()
	conn := dialEvents(t, ts, "", 1)

	// Act
	ts.Stop()

	// Assert
	if err := conn.SetReadDeadline(time.Now().Add(DefaultWebSocketTimeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected read to fail after shutdown")
	}
	if n := ts.Inventory.Events.Subscribers(); n != 0 {
		t.Errorf("Expected 0 subscribers after shutdown, got %d", n)
	}
}

// TestFunctional_WS_005_KindFilter restricts the feed to one resource kind.
// FT-WS-005: Event feed kind filter (GET /ws?kind=record)
func TestFunctional_WS_005_KindFilter(t *testing.T) {
	LogTestStart(t, "FT-WS-005", "Event feed kind filter")
	defer LogTestEnd(t, "FT-WS-005")

	ts := startServer(t)
	conn := dialEvents(t, ts, "?kind=record", 1)
	inventory := ts.Client()
	ctx := requestContext(t)

	// Act
	if _, err := inventory.Products().StoreNewProduct(ctx, model.Product{Name: "Widget", Type: model.ProductTypeStandard}); err != nil {
		t.Fatalf("StoreNewProduct failed: %v", err)
	}
	id, err := inventory.Records().StoreNewRecord(ctx, model.Record{Title: "Blue Train", Artist: "John Coltrane"})
	if err != nil {
		t.Fatalf("StoreNewRecord failed: %v", err)
	}

	// Assert
	assertEvent(t, readEvent(t, conn), model.EventCreated, model.KindRecord, id)

	rejected := RawRequest(t, http.MethodGet, ts.BaseURL+"/ws?kind=album", "", "")
	AssertStatusCode(t, rejected, http.StatusBadRequest)
}
