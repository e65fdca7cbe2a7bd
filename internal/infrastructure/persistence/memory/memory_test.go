package memory

import (
	"context"
	"testing"
	"time"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentRepository_Search_Ranking(t *testing.T) {
	repo := NewInstrumentRepository(
		domain.Instrument{Code: "005930", Name: "삼성전자"},
		domain.Instrument{Code: "028260", Name: "삼성물산"},
		domain.Instrument{Code: "001234", Name: "한투삼성그룹"},
		domain.Instrument{Code: "000660", Name: "SK하이닉스"},
	)

	results, err := repo.Search(context.Background(), "삼성", 10)
	assert.NoError(t, err)
	require.Len(t, results, 3)

	// Name-prefix matches first, name ascending, then name-substring matches.
	assert.Equal(t, "삼성물산", results[0].Name)
	assert.Equal(t, "삼성전자", results[1].Name)
	assert.Equal(t, "한투삼성그룹", results[2].Name)
}

func TestInstrumentRepository_Search_CodeTiers(t *testing.T) {
	repo := NewInstrumentRepository(
		domain.Instrument{Code: "005930", Name: "삼성전자"},
		domain.Instrument{Code: "100059", Name: "가나다"},
	)

	results, err := repo.Search(context.Background(), "0059", 10)
	assert.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "005930", results[0].Code)
	assert.Equal(t, "100059", results[1].Code)
}

func TestLotRepository_AddOrMerge(t *testing.T) {
	repo := NewLotRepository()
	ctx := context.Background()

	first, err := domain.NewLot("owner", "005930", 10, 100, time.Now())
	require.NoError(t, err)
	firstID, err := repo.AddOrMerge(ctx, &first)
	require.NoError(t, err)

	second, err := domain.NewLot("owner", "005930", 10, 200, time.Now())
	require.NoError(t, err)
	secondID, err := repo.AddOrMerge(ctx, &second)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	lots, err := repo.ListByOwner(ctx, "owner")
	assert.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, int64(20), lots[0].Quantity)
	assert.Equal(t, int64(150), lots[0].AvgPrice)
}

func TestWatchlistRepository_Ordering(t *testing.T) {
	repo := NewWatchlistRepository()
	ctx := context.Background()

	older := domain.NewWatchlistEntry("owner", "005930")
	older.AddedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Add(ctx, &older))

	newer := domain.NewWatchlistEntry("owner", "000660")
	require.NoError(t, repo.Add(ctx, &newer))

	entries, err := repo.ListByOwner(ctx, "owner")
	assert.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "000660", entries[0].Code)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	first := domain.NewUser("a@b.com", "hash", "a")
	require.NoError(t, repo.Create(ctx, &first))

	second := domain.NewUser("a@b.com", "hash", "b")
	assert.ErrorIs(t, repo.Create(ctx, &second), domain.ErrDuplicateEmail)
}
