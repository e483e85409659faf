package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"devfolio/internal/apperr"
	"devfolio/internal/auth"
	"devfolio/internal/database"
	"devfolio/internal/scan"
)

// fakeBlobStore is an in-memory asset store. Destroy reports
// apperr.ErrNotFound for unknown keys, matching the real store contract,
// and individual keys can be forced to fail.
type fakeBlobStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	destroyed  []string
	destroyErr map[string]error
	seq        int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:    map[string][]byte{},
		destroyErr: map[string]error{},
	}
}

func (f *fakeBlobStore) Upload(_ context.Context, folder, ext string, reader io.Reader, _ int64, _ string) (database.AssetRef, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return database.AssetRef{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	key := fmt.Sprintf("%s/obj-%d%s", folder, f.seq, ext)
	f.objects[key] = data
	return database.AssetRef{URL: "http://blobs.local/" + key, PublicID: key}, nil
}

func (f *fakeBlobStore) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.destroyErr[publicID]; ok {
		return err
	}
	if _, ok := f.objects[publicID]; !ok {
		return fmt.Errorf("stat %q: %w", publicID, apperr.ErrNotFound)
	}
	delete(f.objects, publicID)
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func (f *fakeBlobStore) remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

type testServer struct {
	router *gin.Engine
	store  *fakeBlobStore
	db     *gorm.DB
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	authService, err := auth.NewAuthService([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	token, err := authService.GenerateToken(1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	store := newFakeBlobStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	RegisterRoutes(router, db, store, authService, nil, scan.NewScanner(""), logger)

	return &testServer{router: router, store: store, db: db, token: token}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) do(t *testing.T, req *http.Request, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if authed {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, authed)
}

// doForm sends a multipart request. fields may repeat a key; files maps a
// field name to a filename whose content is the filename itself.
func (s *testServer) doForm(t *testing.T, method, path string, fields map[string][]string, files map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				t.Fatalf("write field %q: %v", key, err)
			}
		}
	}
	for field, filename := range files {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file %q: %v", field, err)
		}
		if _, err := part.Write([]byte(filename)); err != nil {
			t.Fatalf("write form file %q: %v", field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return s.do(t, req, true)
}
