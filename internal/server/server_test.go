package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab/internal/auth"
	"github.com/hisaab-app/hisaab/internal/feed"
	"github.com/hisaab-app/hisaab/internal/service"
	"github.com/hisaab-app/hisaab/internal/storage/sqlite"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tokens := auth.NewJWTManager("test-secret", time.Hour)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), tokens)
	groups := service.NewGroupService(store)
	expenses := service.NewExpenseService(store, groups, feed.NewHub(store))

	return New(authSvc, groups, expenses, tokens).Router([]string{"http://localhost:3000"})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	resp := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func registerUser(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()
	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":            name,
		"email":           email,
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %v", rec.Code, resp)
	}
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "Asha", "asha@example.com")

	tests := []struct {
		name       string
		path       string
		body       map[string]string
		wantStatus int
	}{
		{
			name: "duplicate email",
			path: "/api/v1/auth/register",
			body: map[string]string{
				"name": "Asha Again", "email": "asha@example.com",
				"password": "secret1", "confirmPassword": "secret1",
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "password confirmation mismatch",
			path: "/api/v1/auth/register",
			body: map[string]string{
				"name": "Ravi", "email": "ravi@example.com",
				"password": "secret1", "confirmPassword": "secret2",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "short password",
			path: "/api/v1/auth/register",
			body: map[string]string{
				"name": "Ravi", "email": "ravi@example.com",
				"password": "abc", "confirmPassword": "abc",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong password",
			path:       "/api/v1/auth/login",
			body:       map[string]string{"email": "asha@example.com", "password": "wrong-pass"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			path:       "/api/v1/auth/login",
			body:       map[string]string{"email": "nobody@example.com", "password": "secret1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "successful login",
			path:       "/api/v1/auth/login",
			body:       map[string]string{"email": "asha@example.com", "password": "secret1"},
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, router, http.MethodPost, tt.path, "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("got status %d, want %d (%v)", rec.Code, tt.wantStatus, resp)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/v1/groups", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: got status %d, want 401", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/groups", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: got status %d, want 401", rec.Code)
	}
}

func TestGroupLifecycle(t *testing.T) {
	router := newTestRouter(t)
	asha := registerUser(t, router, "Asha", "asha@example.com")
	ravi := registerUser(t, router, "Ravi", "ravi@example.com")

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/groups", asha, map[string]string{"groupName": "Goa Trip"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group returned %d: %v", rec.Code, resp)
	}
	group := resp["group"].(map[string]interface{})
	groupID := group["groupId"].(string)
	joinCode := group["uniqueCode"].(string)
	if len(joinCode) != 10 {
		t.Errorf("join code %q is not 10 digits", joinCode)
	}

	rec, resp = doJSON(t, router, http.MethodPost, "/api/v1/groups/join", ravi, map[string]string{"uniqueCode": joinCode})
	if rec.Code != http.StatusOK {
		t.Fatalf("join returned %d: %v", rec.Code, resp)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/groups/join", ravi, map[string]string{"uniqueCode": joinCode})
	if rec.Code != http.StatusConflict {
		t.Errorf("rejoining: got status %d, want 409", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/v1/groups/join", ravi, map[string]string{"uniqueCode": "0000000000"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown code: got status %d, want 404", rec.Code)
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+groupID, ravi, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get group returned %d: %v", rec.Code, resp)
	}
	profiles := resp["memberProfiles"].([]interface{})
	if len(profiles) != 2 {
		t.Errorf("got %d member profiles, want 2", len(profiles))
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/groups", ravi, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list groups returned %d: %v", rec.Code, resp)
	}
	if groups := resp["groups"].([]interface{}); len(groups) != 1 {
		t.Errorf("got %d groups for member, want 1", len(groups))
	}
}

func TestExpenseEndpoints(t *testing.T) {
	router := newTestRouter(t)
	asha := registerUser(t, router, "Asha", "asha@example.com")
	outsider := registerUser(t, router, "Meera", "meera@example.com")

	_, resp := doJSON(t, router, http.MethodPost, "/api/v1/groups", asha, map[string]string{"groupName": "Flat 4B"})
	group := resp["group"].(map[string]interface{})
	groupID := group["groupId"].(string)

	rec, resp := doJSON(t, router, http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", asha, map[string]interface{}{
		"description": "Groceries",
		"category":    "food",
		"expenseDate": "2026-08-30",
		"totalAmount": 100.01,
		"split":       "equal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add expense returned %d: %v", rec.Code, resp)
	}
	expense := resp["expense"].(map[string]interface{})
	lines := expense["splitWith"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("got %d split lines, want 1", len(lines))
	}
	if amount := lines[0].(map[string]interface{})["amount"].(float64); amount != 100.01 {
		t.Errorf("split amount = %v, want 100.01", amount)
	}

	rec, resp = doJSON(t, router, http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", asha, map[string]interface{}{
		"description": "Cab",
		"expenseDate": "2026-08-30",
		"totalAmount": 50.00,
		"splitWith": []map[string]interface{}{
			{"name": "Asha", "amount": 20.00},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched split: got status %d, want 400 (%v)", rec.Code, resp)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+groupID+"/expenses", outsider, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("outsider history: got status %d, want 403", rec.Code)
	}

	rec, resp = doJSON(t, router, http.MethodGet, "/api/v1/groups/"+groupID+"/expenses", asha, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list expenses returned %d: %v", rec.Code, resp)
	}
	expenses := resp["expenses"].([]interface{})
	if len(expenses) != 1 {
		t.Fatalf("got %d expenses, want 1", len(expenses))
	}
	if desc := expenses[0].(map[string]interface{})["description"].(string); desc != "Groceries" {
		t.Errorf("description = %q, want %q", desc, "Groceries")
	}
}
