package application

import (
	"context"
	"testing"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstrumentService() *InstrumentService {
	return NewInstrumentService(memory.NewInstrumentRepository(
		domain.Instrument{Code: "005930", Name: "삼성전자"},
		domain.Instrument{Code: "000660", Name: "SK하이닉스"},
		domain.Instrument{Code: "035420", Name: "NAVER"},
	))
}

func TestInstrumentSearch_TrimsQuery(t *testing.T) {
	svc := newInstrumentService()

	results, err := svc.Search(context.Background(), "  삼성전자  ", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "005930", results[0].Code)
}

func TestInstrumentSearch_EmptyQuery(t *testing.T) {
	svc := newInstrumentService()

	results, err := svc.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInstrumentSearch_LimitDefaults(t *testing.T) {
	svc := newInstrumentService()

	// Zero and oversized limits clamp to the defaults instead of erroring.
	_, err := svc.Search(context.Background(), "삼성", 0)
	assert.NoError(t, err)
	_, err = svc.Search(context.Background(), "삼성", 1000)
	assert.NoError(t, err)
}

func TestInstrumentList_Pagination(t *testing.T) {
	svc := newInstrumentService()
	ctx := context.Background()

	page, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)

	page, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = svc.List(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	// Out-of-range page numbers clamp to the first page.
	page, err = svc.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
}

func TestInstrumentGet(t *testing.T) {
	svc := newInstrumentService()
	ctx := context.Background()

	inst, err := svc.Get(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, "삼성전자", inst.Name)

	_, err = svc.Get(ctx, "999999")
	assert.ErrorIs(t, err, domain.ErrUnknownInstrument)
}
