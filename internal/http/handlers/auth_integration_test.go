package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/reward-points/internal/auth"
	"github.com/hongminglow/reward-points/internal/customers"
	"github.com/hongminglow/reward-points/internal/models"
	"github.com/hongminglow/reward-points/internal/storage/postgres"
)

// TestAuthIntegration exercises register, login and logout against a live Postgres database.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	secret := mustGetEnv(t, "JWT_SECRET")
	issuer := mustGetEnv(t, "JWT_ISSUER")
	ttl := mustGetTTL(t)
	tokens := auth.NewTokenManager(secret, issuer, ttl, store)
	hasher := auth.NewBcryptHasher(0)
	gateway := auth.NewGateway(auth.NewCustomerAuthenticator(store, hasher), tokens, zap.NewNop())

	router := chi.NewRouter()
	NewAuthHandler(gateway, customers.NewService(store, hasher, zap.NewNop())).Register(router)

	ts := httptest.NewServer(router)
	defer ts.Close()

	email := fmt.Sprintf("apitest_%d@example.com", time.Now().UnixNano())
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	customer := requestRegister(t, ts.URL, map[string]string{
		"firstName": "Api",
		"lastName":  "Test",
		"email":     email,
		"password":  password,
	})
	if customer.Email != email || customer.ID == 0 {
		t.Fatalf("register mismatch: got %+v", customer)
	}

	token := requestLogin(t, ts.URL, email, password)
	if strings.TrimSpace(token) == "" {
		t.Fatal("login response missing token")
	}

	requestLogout(t, ts.URL, token)
	revoked, err := tokens.IsRevoked(ctx, token)
	if err != nil || !revoked {
		t.Fatalf("token not revoked after logout: revoked=%v err=%v", revoked, err)
	}

	t.Logf("registered customer %s (id=%d), logged in and out", email, customer.ID)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func post(t *testing.T, url, token string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", auth.BearerPrefix+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	return resp
}

func requestRegister(t *testing.T, baseURL string, payload map[string]string) models.Customer {
	t.Helper()
	resp := post(t, baseURL+"/customers/register", "", payload)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var out envelope[models.Customer]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out.Data
}

func requestLogin(t *testing.T, baseURL, email, password string) string {
	t.Helper()
	resp := post(t, baseURL+"/customers/login", "", map[string]string{"email": email, "password": password})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var out envelope[struct {
		Token string `json:"token"`
	}]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return out.Data.Token
}

func requestLogout(t *testing.T, baseURL, token string) {
	t.Helper()
	resp := post(t, baseURL+"/customers/logout", token, struct{}{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func mustGetTTL(t *testing.T) time.Duration {
	t.Helper()
	minutesStr := mustGetEnv(t, "JWT_TTL_MINUTES")
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		t.Fatalf("invalid JWT_TTL_MINUTES value: %q", minutesStr)
	}
	return time.Duration(minutes) * time.Minute
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
