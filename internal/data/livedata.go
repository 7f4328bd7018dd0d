package data

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"minesite-model/internal/model"
)

const (
	defaultPriceURL      = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"
	defaultDifficultyURL = "https://blockchain.info/q/getdifficulty"
	defaultTipHeightURL  = "https://mempool.space/api/v1/blocks/tip-height"

	// Upstreams are public and unauthenticated; keep requests short-fused so
	// a slow upstream degrades to the static fallback instead of hanging.
	liveRequestTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// LiveDataError represents a failure talking to one of the public network
// data upstreams.
type LiveDataError struct {
	Source     string // "coingecko", "blockchain.info" or "mempool.space"
	StatusCode int    // 0 when the request never completed
	Message    string
	Err        error
}

func (e *LiveDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *LiveDataError) Unwrap() error {
	return e.Err
}

// LiveClient fetches current Bitcoin network values from public APIs:
// spot price from CoinGecko, difficulty from blockchain.info and the chain
// tip height from mempool.space.
type LiveClient struct {
	PriceURL      string
	DifficultyURL string
	TipHeightURL  string
	Client        *http.Client
}

// NewLiveClient creates a client against the public endpoints.
func NewLiveClient() *LiveClient {
	return &LiveClient{
		PriceURL:      defaultPriceURL,
		DifficultyURL: defaultDifficultyURL,
		TipHeightURL:  defaultTipHeightURL,
		Client: &http.Client{
			Timeout: liveRequestTimeout,
		},
	}
}

// FetchSnapshot assembles a full network snapshot from the live upstreams.
// Price and difficulty are required; a failed tip-height lookup only costs
// the optional block height. Block subsidy and FX have no live upstream and
// are stamped from the caller's assumptions.
func (c *LiveClient) FetchSnapshot(subsidyBTC, usdToGBP float64) (model.NetworkSnapshot, error) {
	price, err := c.fetchPriceUSD()
	if err != nil {
		return model.NetworkSnapshot{}, err
	}

	difficulty, err := c.fetchDifficulty()
	if err != nil {
		return model.NetworkSnapshot{}, err
	}

	snap := model.NetworkSnapshot{
		BTCPriceUSD:     price,
		Difficulty:      difficulty,
		BlockSubsidyBTC: subsidyBTC,
		USDToGBP:        usdToGBP,
		AsOfUTC:         time.Now().UTC(),
	}

	if height, err := c.fetchTipHeight(); err != nil {
		log.Printf("[LiveData] Tip height unavailable, continuing without it: %v", err)
	} else {
		snap.BlockHeight = &height
	}

	log.Printf("[LiveData] Snapshot: price=%.2f USD, difficulty=%.3e, height=%s",
		snap.BTCPriceUSD, snap.Difficulty, formatHeight(snap.BlockHeight))
	return snap, nil
}

func (c *LiveClient) fetchPriceUSD() (float64, error) {
	body, err := c.get("coingecko", c.PriceURL)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Bitcoin struct {
			USD float64 `json:"usd"`
		} `json:"bitcoin"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, &LiveDataError{Source: "coingecko", Message: "failed to decode price response", Err: err}
	}
	if payload.Bitcoin.USD <= 0 {
		return 0, &LiveDataError{Source: "coingecko", Message: fmt.Sprintf("implausible price %v", payload.Bitcoin.USD)}
	}
	return payload.Bitcoin.USD, nil
}

func (c *LiveClient) fetchDifficulty() (float64, error) {
	body, err := c.get("blockchain.info", c.DifficultyURL)
	if err != nil {
		return 0, err
	}

	// The endpoint returns the bare number as text.
	difficulty, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil {
		return 0, &LiveDataError{Source: "blockchain.info", Message: "failed to parse difficulty response", Err: err}
	}
	if difficulty <= 0 {
		return 0, &LiveDataError{Source: "blockchain.info", Message: fmt.Sprintf("implausible difficulty %v", difficulty)}
	}
	return difficulty, nil
}

func (c *LiveClient) fetchTipHeight() (int64, error) {
	body, err := c.get("mempool.space", c.TipHeightURL)
	if err != nil {
		return 0, err
	}

	height, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, &LiveDataError{Source: "mempool.space", Message: "failed to parse tip height response", Err: err}
	}
	return height, nil
}

func (c *LiveClient) get(source, rawURL string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &LiveDataError{Source: source, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[LiveData] Request: GET %s", rawURL)
	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[LiveData] Request failed: %v (source=%s, duration=%v)", err, source, duration)
		return nil, &LiveDataError{Source: source, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	log.Printf("[LiveData] Response: %d %s (source=%s, duration=%v)", resp.StatusCode, resp.Status, source, duration)

	if resp.StatusCode != http.StatusOK {
		return nil, &LiveDataError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &LiveDataError{Source: source, StatusCode: resp.StatusCode, Message: "failed to read response body", Err: err}
	}
	return body, nil
}

func formatHeight(h *int64) string {
	if h == nil {
		return "n/a"
	}
	return strconv.FormatInt(*h, 10)
}
