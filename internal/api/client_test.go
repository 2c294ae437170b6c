package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/api")
}

func TestCreateUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["id"] != "u1" || body["name"] != "Alice" || body["role"] != "student" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(User{ID: "u1", Name: "Alice", Role: "student"})
	})

	user, err := c.CreateUser(context.Background(), "u1", "Alice", "student")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if user.ID != "u1" || user.Role != "student" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestGetFriends(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/u1/friends" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]User{{ID: "u2", Name: "Bob"}})
	})

	friends, err := c.GetFriends(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get friends failed: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != "u2" {
		t.Errorf("unexpected friends: %+v", friends)
	}
}

func TestNon2xxCarriesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "user already exists", http.StatusConflict)
	})

	_, err := c.CreateUser(context.Background(), "u1", "Alice", "")
	if err == nil {
		t.Fatal("expected an error for 409")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", statusErr.StatusCode)
	}
	if statusErr.Body == "" {
		t.Error("error should carry the response body")
	}
}

func TestFriendRequestEndpoints(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["fromId"] != "u1" || body["toId"] != "u2" {
			t.Errorf("unexpected body at %s: %v", r.URL.Path, body)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	if err := c.SendFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := c.AcceptFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := c.DeclineFriendRequest(ctx, "u1", "u2"); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	want := []string{"/api/friend-request", "/api/friend-accept", "/api/friend-decline"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("call %d hit %s, want %s", i, paths[i], p)
		}
	}
}

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Error("missing query parameter")
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing user agent")
		}
		w.Write([]byte(`[{"lat":"52.52","lon":"13.405"}]`))
	}))
	t.Cleanup(srv.Close)

	g := NewGeocoder(srv.URL)
	geo, err := g.Geocode(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("geocode failed: %v", err)
	}
	if geo == nil || geo.Lat != 52.52 || geo.Lng != 13.405 {
		t.Errorf("unexpected point: %+v", geo)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	g := NewGeocoder(srv.URL)
	geo, err := g.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("no match should not be an error: %v", err)
	}
	if geo != nil {
		t.Errorf("expected nil point, got %+v", geo)
	}
}
