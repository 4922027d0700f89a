package booking

import (
	"testing"
	"time"

	"github.com/pedram-fm/massage-app-sub000/internal/httperr"
	"github.com/pedram-fm/massage-app-sub000/internal/models"
)

func TestStatusBlocks(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusNoShow} {
		if !s.Blocks() {
			t.Fatalf("%s should block its interval", s)
		}
	}
	if StatusCancelled.Blocks() {
		t.Fatal("cancelled must not block")
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 5, 11, 12, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(StatusConfirmed)}
	if err := Cancel(b, "client asked", now); err != nil {
		t.Fatalf("cancel confirmed: %v", err)
	}
	if b.Status != string(StatusCancelled) || b.CancellationReason != "client asked" {
		t.Fatalf("cancel not applied: %+v", b)
	}
	if b.CancelledAt == nil || !b.CancelledAt.Equal(now) {
		t.Fatal("cancelled_at not stamped")
	}

	// second cancel must fail
	if err := Cancel(b, "", now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	now := time.Date(2026, 5, 11, 12, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(StatusPending)}
	if err := Complete(b, now); err != nil {
		t.Fatalf("complete pending: %v", err)
	}
	if b.Status != string(StatusCompleted) || b.CompletedAt == nil {
		t.Fatalf("complete not applied: %+v", b)
	}

	cancelled := &models.Booking{Status: string(StatusCancelled)}
	if err := Complete(cancelled, now); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}

func TestMarkNoShow(t *testing.T) {
	b := &models.Booking{Status: string(StatusConfirmed)}
	if err := MarkNoShow(b); err != nil {
		t.Fatalf("no-show confirmed: %v", err)
	}
	if b.Status != string(StatusNoShow) {
		t.Fatalf("no-show not applied: %+v", b)
	}

	done := &models.Booking{Status: string(StatusCompleted)}
	if err := MarkNoShow(done); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state, got %v", err)
	}
}
