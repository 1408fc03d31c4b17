package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoyhq/convoyops-backend/internal/models"
	"github.com/convoyhq/convoyops-backend/internal/storage"
)

func TestCompareEmptyRoleResolvesEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	engine := newTestEngine(store, time.Now().UTC())

	records, err := engine.Compare(nil, models.RolePreparator, nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCompareRanksByScore(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	// Busy preparator: several fully completed preparations
	seedUser(t, store, "PRP00001", "Lena", models.RolePreparator)
	for i := 0; i < 5; i++ {
		seedPrepActivity(t, store, "PRP00001", day.Add(time.Duration(i)*time.Hour), map[models.TaskType]int{
			models.TaskExteriorWashing:  20,
			models.TaskInteriorCleaning: 25,
			models.TaskRefueling:        5,
			models.TaskParking:          5,
		})
	}

	// Sparse preparator: one record that never completed
	seedUser(t, store, "PRP00002", "Omar", models.RolePreparator)
	seedPrepActivity(t, store, "PRP00002", day, nil)

	ranking, err := engine.Compare(nil, models.RolePreparator, nil)
	require.NoError(t, err)
	require.Len(t, ranking, 2)

	assert.Equal(t, "PRP00001", ranking[0].UserID)
	assert.Equal(t, "PRP00002", ranking[1].UserID)
	assert.GreaterOrEqual(t, ranking[0].PerformanceScore, ranking[1].PerformanceScore)
}

func TestCompareSkipsFailingUsers(t *testing.T) {
	base := storage.NewMemoryStore()
	store := &failingStore{Store: base, failUsers: map[string]bool{"DRV00002": true}}
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	seedUser(t, base, "DRV00001", "Marc", models.RoleDriver)
	seedUser(t, base, "DRV00002", "Paul", models.RoleDriver)
	seedMovement(t, base, "DRV00001", now.Add(-4*time.Hour), 50)
	seedMovement(t, base, "DRV00002", now.Add(-4*time.Hour), 50)

	ranking, err := engine.Compare(nil, models.RoleDriver, nil)
	require.NoError(t, err)

	// Collect-what-you-can: the broken user is skipped, not fatal
	require.Len(t, ranking, 1)
	assert.Equal(t, "DRV00001", ranking[0].UserID)
}

func TestCompareExplicitUserIDs(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	seedUser(t, store, "DRV00001", "Marc", models.RoleDriver)
	seedUser(t, store, "DRV00002", "Paul", models.RoleDriver)
	seedMovement(t, store, "DRV00001", now.Add(-4*time.Hour), 50)
	seedMovement(t, store, "DRV00002", now.Add(-4*time.Hour), 50)

	ranking, err := engine.Compare([]string{"DRV00002"}, models.RoleDriver, nil)
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, "DRV00002", ranking[0].UserID)
}

func TestGlobalSummaryTaskDistribution(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	seedUser(t, store, "PRP00001", "Lena", models.RolePreparator)
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	// Completed task counts: exteriorWashing 3, interiorCleaning 1 (total 4)
	seedPrepActivity(t, store, "PRP00001", day, map[models.TaskType]int{
		models.TaskExteriorWashing:  10,
		models.TaskInteriorCleaning: 15,
	})
	seedPrepActivity(t, store, "PRP00001", day.Add(time.Hour), map[models.TaskType]int{
		models.TaskExteriorWashing: 10,
	})
	seedPrepActivity(t, store, "PRP00001", day.Add(2*time.Hour), map[models.TaskType]int{
		models.TaskExteriorWashing: 10,
	})

	summary, err := engine.GlobalSummary(models.RolePreparator, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, 1, summary.UserCount)
	assert.Equal(t, map[models.TaskType]int{
		models.TaskExteriorWashing:  75,
		models.TaskInteriorCleaning: 25,
		models.TaskRefueling:        0,
		models.TaskParking:          0,
	}, summary.TaskDistribution)
}

func TestGlobalSummaryDriverTopPerformerByCount(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	seedUser(t, store, "DRV00001", "Marc", models.RoleDriver)
	seedUser(t, store, "DRV00002", "Paul", models.RoleDriver)

	day := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedMovement(t, store, "DRV00001", day.Add(time.Duration(i)*time.Hour), 40)
	}
	seedMovement(t, store, "DRV00002", day, 40)

	summary, err := engine.GlobalSummary(models.RoleDriver, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, 2, summary.UserCount)
	assert.Equal(t, 40, summary.AverageDurations[models.TaskMovement])
	require.NotNil(t, summary.TopPerformer)
	assert.Equal(t, "DRV00001", summary.TopPerformer.UserID)
	assert.Equal(t, "Marc", summary.TopPerformer.Name)
	assert.Equal(t, 3, summary.TopPerformer.CompletedRecords)
}

func TestGlobalSummaryPreparatorTopPerformerByScore(t *testing.T) {
	store := storage.NewMemoryStore()
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	engine := newTestEngine(store, now)

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	seedUser(t, store, "PRP00001", "Lena", models.RolePreparator)
	for i := 0; i < 5; i++ {
		seedPrepActivity(t, store, "PRP00001", day.Add(time.Duration(i)*time.Hour), map[models.TaskType]int{
			models.TaskExteriorWashing:  20,
			models.TaskInteriorCleaning: 25,
			models.TaskRefueling:        5,
			models.TaskParking:          5,
		})
	}

	seedUser(t, store, "PRP00002", "Omar", models.RolePreparator)
	seedPrepActivity(t, store, "PRP00002", day, nil)

	summary, err := engine.GlobalSummary(models.RolePreparator, nil)
	require.NoError(t, err)

	require.NotNil(t, summary.TopPerformer)
	assert.Equal(t, "PRP00001", summary.TopPerformer.UserID)
	assert.Equal(t, "Lena", summary.TopPerformer.Name)
	assert.Greater(t, summary.TopPerformer.PerformanceScore, 0)
}

func TestGlobalSummaryNoRecords(t *testing.T) {
	store := storage.NewMemoryStore()
	engine := newTestEngine(store, time.Now().UTC())

	summary, err := engine.GlobalSummary(models.RoleDriver, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalRecords)
	assert.Equal(t, 0, summary.UserCount)
	assert.Nil(t, summary.TopPerformer)
}

func TestGlobalSummaryInvalidRange(t *testing.T) {
	store := storage.NewMemoryStore()
	engine := newTestEngine(store, time.Now().UTC())

	start := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := engine.GlobalSummary(models.RoleDriver, &models.DateRange{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, models.ErrInvalidDateRange)
}
