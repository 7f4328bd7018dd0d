package data

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"minesite-model/internal/config"
	"minesite-model/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveServer(t *testing.T, priceBody string, priceStatus int, difficultyBody string, tipBody string) *LiveClient {
	t.Helper()

	price := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(priceStatus)
		w.Write([]byte(priceBody))
	}))
	t.Cleanup(price.Close)

	difficulty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(difficultyBody))
	}))
	t.Cleanup(difficulty.Close)

	tip := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tipBody == "" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(tipBody))
	}))
	t.Cleanup(tip.Close)

	c := NewLiveClient()
	c.PriceURL = price.URL
	c.DifficultyURL = difficulty.URL
	c.TipHeightURL = tip.URL
	return c
}

func TestFetchSnapshot(t *testing.T) {
	c := liveServer(t, `{"bitcoin":{"usd":91234.5}}`, http.StatusOK, "1.5123e14\n", "905000")

	snap, err := c.FetchSnapshot(3.125, 0.75)
	require.NoError(t, err)

	assert.InDelta(t, 91234.5, snap.BTCPriceUSD, 1e-9)
	assert.InDelta(t, 1.5123e14, snap.Difficulty, 1)
	assert.InDelta(t, 3.125, snap.BlockSubsidyBTC, 1e-12)
	assert.InDelta(t, 0.75, snap.USDToGBP, 1e-12)
	require.NotNil(t, snap.BlockHeight)
	assert.Equal(t, int64(905000), *snap.BlockHeight)
	assert.WithinDuration(t, time.Now().UTC(), snap.AsOfUTC, 5*time.Second)
	assert.NoError(t, snap.Validate())
}

func TestFetchSnapshotTipHeightOptional(t *testing.T) {
	c := liveServer(t, `{"bitcoin":{"usd":90000}}`, http.StatusOK, "1.5e14", "")

	snap, err := c.FetchSnapshot(3.125, 0.75)
	require.NoError(t, err)
	assert.Nil(t, snap.BlockHeight)
}

func TestFetchSnapshotPriceUpstreamError(t *testing.T) {
	c := liveServer(t, `{"error":"rate limited"}`, http.StatusTooManyRequests, "1.5e14", "905000")

	_, err := c.FetchSnapshot(3.125, 0.75)
	require.Error(t, err)

	var liveErr *LiveDataError
	require.True(t, errors.As(err, &liveErr))
	assert.Equal(t, "coingecko", liveErr.Source)
	assert.Equal(t, http.StatusTooManyRequests, liveErr.StatusCode)
}

func TestFetchSnapshotBadDifficulty(t *testing.T) {
	c := liveServer(t, `{"bitcoin":{"usd":90000}}`, http.StatusOK, "not-a-number", "905000")

	_, err := c.FetchSnapshot(3.125, 0.75)
	require.Error(t, err)

	var liveErr *LiveDataError
	require.True(t, errors.As(err, &liveErr))
	assert.Equal(t, "blockchain.info", liveErr.Source)
}

func TestFetchSnapshotRejectsZeroPrice(t *testing.T) {
	c := liveServer(t, `{"bitcoin":{}}`, http.StatusOK, "1.5e14", "905000")

	_, err := c.FetchSnapshot(3.125, 0.75)
	require.Error(t, err)

	var liveErr *LiveDataError
	require.True(t, errors.As(err, &liveErr))
	assert.Equal(t, "coingecko", liveErr.Source)
}

func TestProviderFallsBackToStatic(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(down.Close)

	c := NewLiveClient()
	c.PriceURL = down.URL
	c.DifficultyURL = down.URL
	c.TipHeightURL = down.URL

	assume := config.DefaultAssumptions()
	p := NewProvider(c, assume)

	snap, source := p.Snapshot()
	assert.Equal(t, SourceStatic, source)
	assert.InDelta(t, assume.BTCPriceUSD, snap.BTCPriceUSD, 1e-9)
	assert.InDelta(t, assume.Difficulty, snap.Difficulty, 1)
	assert.Nil(t, snap.BlockHeight)
}

func TestProviderCachesLiveFetch(t *testing.T) {
	c := liveServer(t, `{"bitcoin":{"usd":88000}}`, http.StatusOK, "1.4e14", "900123")
	p := NewProvider(c, config.DefaultAssumptions())

	first, source := p.Snapshot()
	require.Equal(t, SourceLive, source)

	second, source := p.Snapshot()
	assert.Equal(t, SourceCache, source)
	assert.Equal(t, first, second)
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	height := int64(905000)
	snap := model.NetworkSnapshot{
		BTCPriceUSD:     91000,
		Difficulty:      1.5e14,
		BlockSubsidyBTC: 3.125,
		USDToGBP:        0.75,
		BlockHeight:     &height,
		AsOfUTC:         time.Date(2026, time.February, 1, 9, 30, 0, 0, time.UTC),
	}

	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	require.NoError(t, SaveSnapshot(snap, path))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
