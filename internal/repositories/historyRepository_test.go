package repositories

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecotri/internal/database"
	"ecotri/internal/models"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	dbContainer, err := mongodb.Run(context.Background(), "mongo:latest")
	if err != nil {
		os.Exit(1)
	}
	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		_ = dbContainer.Terminate(context.Background())
		os.Exit(1)
	}
	os.Setenv("MONGO_URI", uri)

	code := m.Run()
	_ = dbContainer.Terminate(context.Background())
	os.Exit(code)
}

func TestHistoryRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	db := database.New()
	defer db.Close()

	repo := NewHistoryRepository(db)
	deviceID := primitive.NewObjectID()

	t.Run("Insert and Find newest first", func(t *testing.T) {
		base := time.Now().Add(-time.Hour)
		names := []string{"Glass Bottle", "Battery", "Cardboard"}
		for i, name := range names {
			item := &models.HistoryItem{
				DeviceID:  deviceID,
				Timestamp: base.Add(time.Duration(i) * time.Minute),
				ItemName:  name,
				Bin:       models.BinGeneral,
			}
			require.NoError(t, repo.Insert(context.Background(), item))
			assert.False(t, item.ID.IsZero())
		}

		items, err := repo.Find(context.Background(), deviceID, 5)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, "Cardboard", items[0].ItemName)
		assert.Equal(t, "Glass Bottle", items[2].ItemName)
	})

	t.Run("DeleteByItemName", func(t *testing.T) {
		require.NoError(t, repo.DeleteByItemName(context.Background(), deviceID, "Battery"))

		items, err := repo.Find(context.Background(), deviceID, 5)
		require.NoError(t, err)
		for _, it := range items {
			assert.NotEqual(t, "Battery", it.ItemName)
		}
	})

	t.Run("TrimToLimit", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			item := &models.HistoryItem{
				DeviceID:  deviceID,
				Timestamp: time.Now().Add(time.Duration(i) * time.Second),
				ItemName:  primitive.NewObjectID().Hex(),
				Bin:       models.BinYellow,
			}
			require.NoError(t, repo.Insert(context.Background(), item))
		}

		require.NoError(t, repo.TrimToLimit(context.Background(), deviceID, 5))

		items, err := repo.Find(context.Background(), deviceID, 100)
		require.NoError(t, err)
		assert.Len(t, items, 5)
	})
}

func TestScoreRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	db := database.New()
	defer db.Close()

	repo := NewScoreRepository(db)
	deviceID := primitive.NewObjectID()

	t.Run("Get for unknown device", func(t *testing.T) {
		score, err := repo.Get(context.Background(), deviceID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, score.Points)
	})

	t.Run("AddPoints upserts and accumulates", func(t *testing.T) {
		total, err := repo.AddPoints(context.Background(), deviceID, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 10, total)

		total, err = repo.AddPoints(context.Background(), deviceID, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 20, total)

		score, err := repo.Get(context.Background(), deviceID)
		require.NoError(t, err)
		assert.EqualValues(t, 20, score.Points)
	})
}
