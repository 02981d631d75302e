package nutrition

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBrandedClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/food/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("food_name"); got != "greek yogurt" {
			t.Errorf("food_name = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ok","data":{"total_results":"1","foods":[
			{"food_id":"b-1","food_name":"Greek Yogurt","barcode":"123",
			 "servings":[{"serving_description":"1 cup","calories":"150","protein":"15","carbohydrate":"8","fat":"4"}]}]}}`))
	}))
	defer srv.Close()

	c := NewBrandedClient(srv.URL+"/", "secret")
	recs, err := c.Search(context.Background(), "greek yogurt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	f, ok := recs[0].(BrandedFood)
	if !ok {
		t.Fatalf("record type %T, want BrandedFood", recs[0])
	}
	if f.FoodName != "Greek Yogurt" || f.Servings[0].Calories != "150" {
		t.Errorf("unexpected record %+v", f)
	}
}

func TestOpenDatabaseClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("search_terms"); got != "skyr" {
			t.Errorf("search_terms = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "fitcore-test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(`{"count":1,"products":[{"code":"42","product_name":"Skyr",
			"serving_quantity":"170","nutriments":{"energy-kcal_100g":59,"proteins_100g":10}}]}`))
	}))
	defer srv.Close()

	c := NewOpenDatabaseClient(srv.URL, "fitcore-test")
	recs, err := c.Search(context.Background(), "skyr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	cand, err := Normalize(recs[0])
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !approx(cand.CaloriesPerServing, 100.3) {
		t.Errorf("CaloriesPerServing = %v, want 100.3", cand.CaloriesPerServing)
	}
}

func TestClients_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	for _, src := range []Source{NewBrandedClient(srv.URL, ""), NewOpenDatabaseClient(srv.URL, "")} {
		if _, err := src.Search(context.Background(), "anything"); err == nil {
			t.Errorf("%s: expected error on non-200 status", src.Provider())
		}
	}
}

func TestClients_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	if _, err := NewBrandedClient(srv.URL, "").Search(context.Background(), "x"); err == nil {
		t.Error("expected error for malformed payload")
	}
}
