package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/nexify/go-nexify/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Chat{}, &domain.Message{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	return db
}

func TestGetOrCreate(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	first, created, err := repo.GetOrCreate(ctx, "c1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created {
		t.Error("first call should create the chat")
	}

	second, created, err := repo.GetOrCreate(ctx, "c1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created {
		t.Error("second call should reuse the existing chat")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at must be immutable: %v != %v", second.CreatedAt, first.CreatedAt)
	}
}

func TestGetOrCreate_RejectsEmptyID(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))

	if _, _, err := repo.GetOrCreate(context.Background(), "  "); err == nil {
		t.Error("expected validation error for blank chat ID")
	}
}

func TestSave_UpdatesTitle(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	chat, _, err := repo.GetOrCreate(ctx, "c1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	chat.Title = "Capital of Sweden"
	if err := repo.Save(ctx, chat); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, "c1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Title != "Capital of Sweden" {
		t.Errorf("expected updated title, got %q", reloaded.Title)
	}
}

func TestSave_TitleBoundCountsRunes(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))
	ctx := context.Background()

	chat, _, err := repo.GetOrCreate(ctx, "c1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	// 200 two-byte runes are within the bound even though the byte length
	// is twice that.
	chat.Title = strings.Repeat("é", 200)
	if err := repo.Save(ctx, chat); err != nil {
		t.Errorf("Save rejected a 200-rune title: %v", err)
	}

	chat.Title = strings.Repeat("é", 201)
	if err := repo.Save(ctx, chat); err == nil {
		t.Error("expected validation error for a 201-rune title")
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo := NewChatRepository(newTestDB(t))

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, ErrChatNotFound) {
		t.Errorf("expected ErrChatNotFound, got %v", err)
	}
}

func TestFindByCreatedDate_Buckets(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	seed := []struct {
		id        string
		createdAt time.Time
	}{
		{"today-noon", now.Add(-2 * time.Hour)},
		{"today-midnight", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC)},
		{"three-days-ago", time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC)},
		{"seven-days-ago", time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)},
		{"eight-days-ago", time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC)},
	}
	for _, s := range seed {
		if err := db.Create(&domain.Chat{ID: s.id, CreatedAt: s.createdAt}).Error; err != nil {
			t.Fatalf("seeding %s: %v", s.id, err)
		}
	}

	today, err := repo.FindByCreatedDate(ctx, now, 10)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if len(today) != 2 {
		t.Errorf("expected 2 chats today, got %d", len(today))
	}

	yesterday, err := repo.FindByCreatedDate(ctx, now.AddDate(0, 0, -1), 10)
	if err != nil {
		t.Fatalf("yesterday: %v", err)
	}
	if len(yesterday) != 1 || yesterday[0].ID != "yesterday" {
		t.Errorf("unexpected yesterday bucket: %+v", yesterday)
	}

	dayStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	week, err := repo.FindByCreatedRange(ctx, dayStart.AddDate(0, 0, -7), dayStart.AddDate(0, 0, -1), 10)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if len(week) != 2 {
		t.Errorf("expected 2 chats in the 2-7 day range, got %d", len(week))
	}
	for _, c := range week {
		if c.ID == "yesterday" || c.ID == "eight-days-ago" {
			t.Errorf("chat %s must not appear in the 2-7 day range", c.ID)
		}
	}
}

func TestFindByCreatedRange_CapAndOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)

	base := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		chat := &domain.Chat{
			ID:        fmt.Sprintf("c%02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(chat).Error; err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	chats, err := repo.FindByCreatedRange(context.Background(), base, base.AddDate(0, 0, 1), 10)
	if err != nil {
		t.Fatalf("FindByCreatedRange: %v", err)
	}

	if len(chats) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(chats))
	}
	if chats[0].ID != "c14" {
		t.Errorf("expected newest chat first, got %s", chats[0].ID)
	}
	for i := 1; i < len(chats); i++ {
		if chats[i].CreatedAt.After(chats[i-1].CreatedAt) {
			t.Errorf("chats not in descending created_at order at index %d", i)
		}
	}
}
