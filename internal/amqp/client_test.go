package amqp

import (
	"context"
	"testing"
	"time"
)

func TestLedgerEventJSONRoundTrip(t *testing.T) {
	in := NewLedgerEvent(EventTransactionCreated, "Unit 1", "1500.00", "March rent")
	data, err := in.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Kind != in.Kind || out.Apartment != in.Apartment || out.Amount != in.Amount || out.Details != in.Details {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
	if time.Since(out.Timestamp) > time.Minute {
		t.Fatalf("timestamp not preserved: %v", out.Timestamp)
	}
}

func TestLedgerEventFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNilClientPublishIsNoOp(t *testing.T) {
	var c *Client
	if err := c.PublishEvent(context.Background(), NewLedgerEvent(EventVacancyAlert, "Unit 3", "", "vacant 60 days")); err != nil {
		t.Fatalf("nil client publish: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client close: %v", err)
	}
}
