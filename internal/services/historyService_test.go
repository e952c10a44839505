package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/models"
)

func TestRecordClassificationKeepsNewestFirst(t *testing.T) {
	repo := &memHistoryRepo{}
	svc := NewHistoryService(repo, 5)
	deviceID := primitive.NewObjectID()

	for _, name := range []string{"Glass jar", "Banana peel", "Pizza box"} {
		require.NoError(t, svc.RecordClassification(context.Background(), deviceID, name, models.BinGeneral))
	}

	items, err := svc.GetHistory(context.Background(), deviceID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Pizza box", items[0].ItemName)
	assert.Equal(t, "Banana peel", items[1].ItemName)
	assert.Equal(t, "Glass jar", items[2].ItemName)
}

func TestRecordClassificationDeduplicatesToFront(t *testing.T) {
	repo := &memHistoryRepo{}
	svc := NewHistoryService(repo, 5)
	deviceID := primitive.NewObjectID()

	require.NoError(t, svc.RecordClassification(context.Background(), deviceID, "Glass jar", models.BinGlass))
	require.NoError(t, svc.RecordClassification(context.Background(), deviceID, "Banana peel", models.BinCompost))
	require.NoError(t, svc.RecordClassification(context.Background(), deviceID, "Glass jar", models.BinGlass))

	items, err := svc.GetHistory(context.Background(), deviceID)
	require.NoError(t, err)
	require.Len(t, items, 2, "a repeat item must not duplicate the entry")
	assert.Equal(t, "Glass jar", items[0].ItemName)
	assert.Equal(t, "Banana peel", items[1].ItemName)
}

func TestRecordClassificationCapsAtLimit(t *testing.T) {
	repo := &memHistoryRepo{}
	svc := NewHistoryService(repo, 5)
	deviceID := primitive.NewObjectID()

	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("Item %d", i)
		require.NoError(t, svc.RecordClassification(context.Background(), deviceID, name, models.BinYellow))
	}

	items, err := svc.GetHistory(context.Background(), deviceID)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "Item 7", items[0].ItemName)
	assert.Equal(t, "Item 3", items[4].ItemName, "oldest entries beyond the cap are dropped")
}

func TestHistoryIsScopedToDevice(t *testing.T) {
	repo := &memHistoryRepo{}
	svc := NewHistoryService(repo, 5)
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	require.NoError(t, svc.RecordClassification(context.Background(), first, "Glass jar", models.BinGlass))

	items, err := svc.GetHistory(context.Background(), second)
	require.NoError(t, err)
	assert.Empty(t, items)
}
