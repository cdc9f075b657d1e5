package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresTokenAndBaseURL(t *testing.T) {
	if _, err := New("", "https://api.example.com/3", "en-US", "US"); err == nil {
		t.Fatal("expected error for missing token")
	}
	if _, err := New("token", "  ", "en-US", "US"); err == nil {
		t.Fatal("expected error for missing base url")
	}
}

func TestDiscoverByProviderRequestShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":603,"title":"The Matrix","release_date":"1999-03-31"}],"total_pages":1}`))
	}))
	t.Cleanup(server.Close)

	client, err := New("secret-token", server.URL, "en-US", "US")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.DiscoverByProvider(context.Background(), 8, 1)
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/discover/movie" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	for key, want := range map[string]string{
		"with_watch_providers": "8",
		"watch_region":         "US",
		"sort_by":              "popularity.desc",
		"page":                 "1",
		"language":             "en-US",
	} {
		if got := gotQuery[key]; len(got) != 1 || got[0] != want {
			t.Fatalf("query %s = %v, want %q", key, got, want)
		}
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 603 {
		t.Fatalf("results = %+v", resp.Results)
	}
}

func TestMovieDetailsAppendsSubResources(t *testing.T) {
	var gotAppend string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAppend = r.URL.Query().Get("append_to_response")
		_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,
			"credits":{"crew":[{"name":"Lana Wachowski","job":"Director"}]}}`))
	}))
	t.Cleanup(server.Close)

	client, err := New("token", server.URL, "en-US", "US")
	if err != nil {
		t.Fatal(err)
	}
	movie, err := client.MovieDetails(context.Background(), 603)
	if err != nil {
		t.Fatal(err)
	}
	if gotAppend != "credits,keywords,images,release_dates" {
		t.Fatalf("append_to_response = %q", gotAppend)
	}
	if movie.Title != "The Matrix" || movie.Runtime != 136 {
		t.Fatalf("movie = %+v", movie)
	}
	if got := director(movie.Credits.Crew); got != "Lana Wachowski" {
		t.Fatalf("director = %q", got)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := New("bad-token", server.URL, "", "US")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.DiscoverByProvider(context.Background(), 8, 1); err == nil {
		t.Fatal("expected error for 401 response")
	}
	if _, err := client.MovieDetails(context.Background(), 603); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestDiscoverRejectsBadProvider(t *testing.T) {
	client, err := New("token", "https://unused.invalid/3", "", "US")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.DiscoverByProvider(context.Background(), 0, 1); err == nil {
		t.Fatal("expected error for non-positive provider id")
	}
}
