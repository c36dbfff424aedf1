package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
	"github.com/vheb/stocksim/internal/usecase/mocks"
)

func today() time.Time {
	return domain.Day(time.Now())
}

func yesterday() time.Time {
	return today().AddDate(0, 0, -1)
}

func newQuoteUseCase(repo *mocks.MockPriceCacheRepository, provider *mocks.MockQuoteProvider, tracked []string) *usecase.QuoteUseCase {
	return usecase.NewQuoteUseCase(repo, provider, tracked, zerolog.Nop())
}

func TestGetPriceFreshEntrySkipsProvider(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	repo.Seed(&domain.PriceEntry{
		Symbol:    "AAPL",
		Price:     decimal.NewFromInt(190),
		UpdatedOn: today(),
	})

	uc := newQuoteUseCase(repo, provider, nil)

	entry, err := uc.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	require.True(t, entry.Price.Equal(decimal.NewFromInt(190)))
	require.Zero(t, provider.Calls("AAPL"), "fresh entry must not hit the provider")
}

func TestGetPriceStaleEntryRefreshes(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	repo.Seed(&domain.PriceEntry{
		Symbol:    "AAPL",
		Price:     decimal.NewFromInt(180),
		UpdatedOn: yesterday(),
	})

	provider.FetchDailyQuoteFunc = func(ctx context.Context, symbol string) (*domain.Quote, error) {
		return &domain.Quote{Latest: decimal.NewFromInt(195), Previous: decimal.NewFromInt(180)}, nil
	}

	uc := newQuoteUseCase(repo, provider, nil)

	entry, err := uc.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	require.True(t, entry.Price.Equal(decimal.NewFromInt(195)))
	require.True(t, entry.FreshOn(time.Now()))
	require.Equal(t, 1, provider.Calls("AAPL"))
}

func TestGetPriceFallsBackToStaleOnProviderFailure(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	repo.Seed(&domain.PriceEntry{
		Symbol:    "AAPL",
		Price:     decimal.NewFromInt(180),
		UpdatedOn: yesterday(),
	})

	provider.FetchDailyQuoteFunc = func(ctx context.Context, symbol string) (*domain.Quote, error) {
		return nil, domain.ErrProviderUnavailable
	}

	uc := newQuoteUseCase(repo, provider, nil)

	entry, err := uc.GetPrice(context.Background(), "AAPL")
	require.NoError(t, err, "a stale price beats no price")
	require.True(t, entry.Price.Equal(decimal.NewFromInt(180)))
	require.False(t, entry.FreshOn(time.Now()))
}

func TestGetPriceUnavailableWithoutPriorEntry(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	provider.FetchDailyQuoteFunc = func(ctx context.Context, symbol string) (*domain.Quote, error) {
		return nil, domain.ErrProviderUnavailable
	}

	uc := newQuoteUseCase(repo, provider, nil)

	_, err := uc.GetPrice(context.Background(), "AAPL")
	require.ErrorIs(t, err, domain.ErrQuoteUnavailable)
}

func TestGetPriceRejectsBadSymbol(t *testing.T) {
	uc := newQuoteUseCase(mocks.NewMockPriceCacheRepository(), mocks.NewMockQuoteProvider(), nil)

	_, err := uc.GetPrice(context.Background(), "not a symbol")
	require.ErrorIs(t, err, domain.ErrInvalidSymbol)
}

func TestRefreshPartialFailureIsolation(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	repo.Seed(&domain.PriceEntry{
		Symbol:    "XCORP",
		Price:     decimal.NewFromInt(50),
		UpdatedOn: yesterday(),
	})
	repo.Seed(&domain.PriceEntry{
		Symbol:    "YCORP",
		Price:     decimal.NewFromInt(70),
		UpdatedOn: yesterday(),
	})

	provider.FetchDailyQuoteFunc = func(ctx context.Context, symbol string) (*domain.Quote, error) {
		if symbol == "XCORP" {
			return nil, domain.ErrProviderUnavailable
		}
		return &domain.Quote{Latest: decimal.NewFromInt(75), Previous: decimal.NewFromInt(70)}, nil
	}

	uc := newQuoteUseCase(repo, provider, nil)
	uc.Refresh(context.Background(), []string{"XCORP", "YCORP"})

	x, err := repo.Get(context.Background(), "XCORP")
	require.NoError(t, err)
	require.True(t, x.Price.Equal(decimal.NewFromInt(50)), "failed symbol keeps prior entry")
	require.False(t, x.FreshOn(time.Now()))

	y, err := repo.Get(context.Background(), "YCORP")
	require.NoError(t, err)
	require.True(t, y.Price.Equal(decimal.NewFromInt(75)))
	require.True(t, y.FreshOn(time.Now()))
}

func TestConcurrentRefreshDeduplicated(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	release := make(chan struct{})
	provider.FetchDailyQuoteFunc = func(ctx context.Context, symbol string) (*domain.Quote, error) {
		<-release
		return &domain.Quote{Latest: decimal.NewFromInt(100), Previous: decimal.NewFromInt(99)}, nil
	}

	uc := newQuoteUseCase(repo, provider, nil)

	const callers = 10

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := uc.GetPrice(context.Background(), "AAPL")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	// Let the goroutines pile up behind the single in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, 1, provider.Calls("AAPL"), "concurrent callers must share one provider call")
}

func TestGetQuotesRefreshesTrackedUniverse(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	uc := newQuoteUseCase(repo, provider, []string{"MSFT", "GOOG"})

	entries, err := uc.GetQuotes(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	require.Contains(t, entries, "AAPL")

	// The miss refreshed the tracked universe alongside the request.
	require.Equal(t, 1, provider.Calls("MSFT"))
	require.Equal(t, 1, provider.Calls("GOOG"))
}

func TestGetQuotesOmitsUnavailableSymbols(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	provider.FetchDailyQuoteFunc = func(ctx context.Context, symbol string) (*domain.Quote, error) {
		if symbol == "NODATA" {
			return nil, domain.ErrQuoteUnavailable
		}
		return &domain.Quote{Latest: decimal.NewFromInt(10), Previous: decimal.NewFromInt(9)}, nil
	}

	uc := newQuoteUseCase(repo, provider, nil)

	entries, err := uc.GetQuotes(context.Background(), []string{"AAPL", "NODATA"})
	require.NoError(t, err)
	require.Contains(t, entries, "AAPL")
	require.NotContains(t, entries, "NODATA")
}

func TestRefreshSkipsFreshEntries(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	repo.Seed(&domain.PriceEntry{
		Symbol:    "AAPL",
		Price:     decimal.NewFromInt(190),
		UpdatedOn: today(),
	})

	uc := newQuoteUseCase(repo, provider, nil)
	uc.Refresh(context.Background(), []string{"AAPL"})

	require.Zero(t, provider.Calls("AAPL"), "entry refreshed today must not be fetched again")
}

func TestRefreshAllFetchesEachSymbolOncePerDay(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	uc := newQuoteUseCase(repo, provider, []string{"AAPL", "MSFT"})

	require.NoError(t, uc.RefreshAll(context.Background()))
	require.NoError(t, uc.RefreshAll(context.Background()))

	require.Equal(t, 1, provider.Calls("AAPL"), "second same-day cycle must serve from the cache")
	require.Equal(t, 1, provider.Calls("MSFT"))
}

func TestRefreshAllCoversCachedSymbols(t *testing.T) {
	repo := mocks.NewMockPriceCacheRepository()
	provider := mocks.NewMockQuoteProvider()

	repo.Seed(&domain.PriceEntry{Symbol: "TSLA", Price: decimal.NewFromInt(200), UpdatedOn: yesterday()})

	uc := newQuoteUseCase(repo, provider, []string{"AAPL"})

	require.NoError(t, uc.RefreshAll(context.Background()))
	require.Equal(t, 1, provider.Calls("AAPL"))
	require.Equal(t, 1, provider.Calls("TSLA"))
}
