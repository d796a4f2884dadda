package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFixedPrice(t *testing.T) {
	price, err := Fixed(45000).Price(context.Background())
	if err != nil || price != 45000 {
		t.Fatalf("price = %v, err = %v", price, err)
	}
	if _, err := Fixed(0).Price(context.Background()); !errors.Is(err, ErrBadPrice) {
		t.Fatalf("zero price: err = %v, want ErrBadPrice", err)
	}
}

func TestHTTPOraclePrice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price_usd": 51234.5}`))
	}))
	defer ts.Close()

	price, err := NewHTTP(ts.URL).Price(context.Background())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 51234.5 {
		t.Fatalf("price = %v, want 51234.5", price)
	}
}

func TestHTTPOracleRejectsNonPositive(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price_usd": 0}`))
	}))
	defer ts.Close()

	if _, err := NewHTTP(ts.URL).Price(context.Background()); !errors.Is(err, ErrBadPrice) {
		t.Fatalf("err = %v, want ErrBadPrice", err)
	}
}

func TestHTTPOracleRetriesOn5xx(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"price_usd": 100}`))
	}))
	defer ts.Close()

	price, err := NewHTTP(ts.URL).Price(context.Background())
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 100 || calls != 2 {
		t.Fatalf("price = %v after %d calls", price, calls)
	}
}

func TestHTTPOracleFailsOn4xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	if _, err := NewHTTP(ts.URL).Price(context.Background()); err == nil {
		t.Fatal("expected error on 404")
	}
}
