// ABOUTME: Tests for professor store connection validation.
// ABOUTME: Uses httptest to verify auth headers, the ping query, and error mapping.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/docentes" {
			t.Errorf("expected /rest/v1/docentes, got %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("expected apikey=test-key, got %s", r.Header.Get("apikey"))
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("expected bearer auth, got %s", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("expected limit=1, got %s", r.URL.Query().Get("limit"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL+"/rest/v1/", "test-key", "docentes")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, "bad-key", "profesores")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid API key") {
		t.Errorf("expected invalid API key message, got %v", err)
	}
}

func TestValidateConnection_MissingTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, "test-key", "nope")
	if err == nil || !strings.Contains(err.Error(), `"nope"`) {
		t.Fatalf("expected table not found error, got %v", err)
	}
}

func TestValidateConnection_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`internal error`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, "test-key", "profesores")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestValidateConnection_Unreachable(t *testing.T) {
	err := ValidateConnection(context.Background(), "http://localhost:1", "test-key", "profesores")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestValidateConnection_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ValidateConnection(ctx, server.URL, "test-key", "profesores")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
