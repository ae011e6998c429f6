package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// quotaMarker is the substring the ERP embeds in Error.Message when the
// daily API quota is exhausted. The remote reports it in Korean inside
// a 200 response.
const quotaMarker = "초과"

const (
	defaultMaxRetries = 5
	defaultRetryDelay = 3 * time.Second
)

// StockRecord is one (product code, quantity) pair reported by the ERP
// for the base date.
type StockRecord struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

type loginRequest struct {
	ComCode    string `json:"COM_CODE"`
	UserID     string `json:"USER_ID"`
	APICertKey string `json:"API_CERT_KEY"`
	LanType    string `json:"LAN_TYPE"`
	Zone       string `json:"ZONE"`
}

type loginResponse struct {
	Data struct {
		Datas struct {
			SessionID string `json:"SESSION_ID"`
		} `json:"Datas"`
	} `json:"Data"`
}

type inventoryRequest struct {
	ProdCD   string `json:"PROD_CD,omitempty"`
	BaseDate string `json:"BASE_DATE"`
}

type rawStock struct {
	ProdCD string `json:"PROD_CD"`
	BalQty balQty `json:"BAL_QTY"`
}

// balQty holds the raw quantity token. The ERP serializes it
// inconsistently: sometimes a number, sometimes a quoted numeric
// string with a decimal part.
type balQty string

func (q *balQty) UnmarshalJSON(data []byte) error {
	*q = balQty(strings.Trim(string(data), `"`))
	return nil
}

type inventoryResponse struct {
	Data *struct {
		Result []rawStock `json:"Result"`
	} `json:"Data"`
	Error *struct {
		Message string `json:"Message"`
	} `json:"Error"`
}

// Client fetches stock levels from the ERP inventory API, reusing a
// cached session id and retrying transient failures.
type Client struct {
	cfg      Config
	http     *http.Client
	sessions *SessionCache
	log      *slog.Logger
	loc      *time.Location

	maxRetries int
	retryDelay time.Duration
}

func NewClient(cfg Config, log *slog.Logger, loc *time.Location) *Client {
	c := &Client{
		cfg:        cfg,
		http:       &http.Client{Timeout: 30 * time.Second},
		log:        log,
		loc:        loc,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	c.sessions = NewSessionCache(c.login, SessionTTL)
	return c
}

// Sessions exposes the session cache so the HTTP layer can serve the
// session-id inspection endpoint.
func (c *Client) Sessions() *SessionCache {
	return c.sessions
}

// FetchAll returns every stock record with a positive quantity, in the
// order the ERP reported them.
func (c *Client) FetchAll(ctx context.Context) ([]StockRecord, error) {
	raw, err := c.fetch(ctx, c.cfg.InventoryListURL, inventoryRequest{BaseDate: c.baseDate()})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty result set", ErrNoStock)
	}

	records := make([]StockRecord, 0, len(raw))
	for _, r := range raw {
		rec, err := r.toRecord()
		if err != nil {
			return nil, err
		}
		if rec.Quantity > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}

// FetchOne returns the stock record for a single product code, or nil
// when the ERP knows nothing about it or reports no positive stock.
func (c *Client) FetchOne(ctx context.Context, code string) (*StockRecord, error) {
	raw, err := c.fetch(ctx, c.cfg.InventoryURL, inventoryRequest{ProdCD: code, BaseDate: c.baseDate()})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	rec, err := raw[0].toRecord()
	if err != nil {
		return nil, err
	}
	if rec.Quantity <= 0 {
		return nil, nil
	}
	return &rec, nil
}

// fetch runs one inventory query with the bounded retry policy: only
// transport-level failures (wrapped as ErrUnavailable) are retried;
// quota and empty-result failures surface immediately.
func (c *Client) fetch(ctx context.Context, url string, body inventoryRequest) ([]rawStock, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		raw, err := c.fetchOnce(ctx, url, body)
		if err == nil {
			return raw, nil
		}
		if !isUnavailable(err) {
			return nil, err
		}
		lastErr = err

		if attempt <= c.maxRetries {
			c.log.Warn("inventory request failed, retrying",
				"attempt", attempt, "max_retries", c.maxRetries, "err", err)
			if err := sleep(ctx, c.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string, body inventoryRequest) ([]rawStock, error) {
	sessionID, err := c.sessions.SessionID(ctx)
	if err != nil {
		return nil, err
	}

	var decoded inventoryResponse
	if err := c.post(ctx, url+"?SESSION_ID="+sessionID, body, &decoded); err != nil {
		return nil, err
	}

	if decoded.Error != nil && strings.Contains(decoded.Error.Message, quotaMarker) {
		return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, decoded.Error.Message)
	}
	if decoded.Data == nil || decoded.Data.Result == nil {
		return nil, fmt.Errorf("%w: inventory result missing", ErrNoStock)
	}

	return decoded.Data.Result, nil
}

// login performs the ERP login call. Failures count as unavailability
// so the surrounding fetch loop retries them.
func (c *Client) login(ctx context.Context) (string, error) {
	req := loginRequest{
		ComCode:    c.cfg.ComCode,
		UserID:     c.cfg.UserID,
		APICertKey: c.cfg.APICertKey,
		LanType:    c.cfg.LanType,
		Zone:       c.cfg.Zone,
	}

	var decoded loginResponse
	if err := c.post(ctx, c.cfg.LoginURL, req, &decoded); err != nil {
		return "", err
	}

	sessionID := decoded.Data.Datas.SessionID
	if sessionID == "" {
		return "", fmt.Errorf("%w: login response missing session id", ErrUnavailable)
	}

	c.log.Info("erp login succeeded")

	return sessionID, nil
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: erp responded %d", ErrUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: undecodable response: %v", ErrUnavailable, err)
	}

	return nil
}

func (c *Client) baseDate() string {
	return time.Now().In(c.loc).Format("20060102")
}

func (r rawStock) toRecord() (StockRecord, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(r.BalQty)), 64)
	if err != nil {
		return StockRecord{}, fmt.Errorf("%w: unreadable quantity %q for %s", ErrNoStock, r.BalQty, r.ProdCD)
	}
	return StockRecord{Code: r.ProdCD, Quantity: int(f)}, nil
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
