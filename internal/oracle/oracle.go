package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrBadPrice = errors.New("bad_price")

// Oracle reports the current USD price of the settlement asset. It
// fails closed: implementations never return a non-positive price.
type Oracle interface {
	Price(ctx context.Context) (float64, error)
}

// Fixed is a constant-price oracle for development and tests.
type Fixed float64

func (f Fixed) Price(ctx context.Context) (float64, error) {
	if f <= 0 {
		return 0, ErrBadPrice
	}
	return float64(f), nil
}

// HTTPOracle fetches the price from a JSON endpoint of the shape
// {"price_usd": 12345.67}.
type HTTPOracle struct {
	url    string
	client *http.Client
}

func NewHTTP(url string) *HTTPOracle {
	return &HTTPOracle{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (o *HTTPOracle) Price(ctx context.Context) (float64, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
		if err != nil {
			return 0, err
		}
		resp, err := o.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt == 0 && ctx.Err() == nil {
				time.Sleep(200 * time.Millisecond)
				continue
			}
			return 0, err
		}
		if resp.StatusCode >= 500 && attempt == 0 {
			resp.Body.Close()
			time.Sleep(200 * time.Millisecond)
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return 0, fmt.Errorf("price oracle status %d", resp.StatusCode)
		}
		var body struct {
			PriceUSD float64 `json:"price_usd"`
		}
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return 0, err
		}
		if body.PriceUSD <= 0 {
			return 0, ErrBadPrice
		}
		return body.PriceUSD, nil
	}
	return 0, lastErr
}
