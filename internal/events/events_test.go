package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMessage(t *testing.T) {
	occurred := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	e := Event{
		Type:       TypePurchaseCompleted,
		Key:        "user-1",
		OccurredAt: occurred,
		Payload: PurchaseCompleted{
			UserID:    "user-1",
			Quantity:  decimal.NewFromInt(5),
			UnitPrice: decimal.NewFromInt(70),
			TotalCost: decimal.NewFromInt(350),
		},
	}

	msg, err := Message(e)
	if err != nil {
		t.Fatalf("Message() returned unexpected error: %v", err)
	}

	if string(msg.Key) != "user-1" {
		t.Errorf("Expected key user-1, got %q", msg.Key)
	}
	if !msg.Time.Equal(occurred) {
		t.Errorf("Expected time %s, got %s", occurred, msg.Time)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != TypePurchaseCompleted {
		t.Errorf("Unexpected headers %+v", msg.Headers)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			TotalCost string `json:"totalCost"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("Failed to decode value: %v", err)
	}
	if decoded.Type != TypePurchaseCompleted || decoded.Payload.TotalCost != "350" {
		t.Errorf("Unexpected payload %+v", decoded)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var p Publisher = &r

	_ = p.Publish(context.Background(), Event{Type: TypeUserDeleted, Key: "u"})
	_ = p.Publish(context.Background(), Event{Type: TypeAssetPriceUpdated, Key: "a"})

	got := r.Events()
	if len(got) != 2 || got[1].Type != TypeAssetPriceUpdated {
		t.Errorf("Unexpected events %+v", got)
	}

	if err := (NopPublisher{}).Publish(context.Background(), Event{}); err != nil {
		t.Errorf("NopPublisher returned error: %v", err)
	}
}
