package auth

import (
	"context"
	"testing"
)

func TestWithIdentityRoundTrip(t *testing.T) {
	id := Identity{UserID: 7, Email: "alice@example.com"}
	ctx := WithIdentity(context.Background(), id)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got.UserID != 7 {
		t.Errorf("UserID = %d, want 7", got.UserID)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "alice@example.com")
	}
}

func TestFromContextEmpty(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected no identity in empty context")
	}
}

func TestUserIDHelper(t *testing.T) {
	if got := UserID(context.Background()); got != 0 {
		t.Errorf("UserID on empty context = %d, want 0", got)
	}

	ctx := WithIdentity(context.Background(), Identity{UserID: 42})
	if got := UserID(ctx); got != 42 {
		t.Errorf("UserID = %d, want 42", got)
	}
}
