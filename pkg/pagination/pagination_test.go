package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero defaults", limit: 0, want: DefaultLimit},
		{name: "negative defaults", limit: -5, want: DefaultLimit},
		{name: "in range passes through", limit: 40, want: 40},
		{name: "over max clamps", limit: 5000, want: MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.limit); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}

func TestLimitWithBufferAddsOne(t *testing.T) {
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d, want 11", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2025, 11, 3, 9, 30, 0, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("ParseCursor returned error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected cursor, got nil")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("timestamp mismatch: got %s want %s", got.CreatedAt, want.CreatedAt)
	}
	if got.ID != want.ID {
		t.Fatalf("id mismatch: got %s want %s", got.ID, want.ID)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	got, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("ParseCursor returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil cursor for blank value")
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, value := range []string{"not-base64!!", "bm8tc2VwYXJhdG9y"} {
		if _, err := ParseCursor(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}
