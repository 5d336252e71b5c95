package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tiendahub/backoffice/internal/domain/user"
	"github.com/tiendahub/backoffice/internal/http/handlers"
	"github.com/tiendahub/backoffice/internal/security"
)

type fakeUsersStore struct {
	listFn      func(ctx context.Context) ([]user.User, error)
	getFn       func(ctx context.Context, id int64) (user.User, error)
	createFn    func(ctx context.Context, name, email, passwordHash string, roleIDs []int64) (user.User, error)
	updateFn    func(ctx context.Context, id int64, name, email string, passwordHash *string, roleIDs []int64) (user.User, error)
	setActiveFn func(ctx context.Context, id int64, active bool) (user.User, error)
}

func (f *fakeUsersStore) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeUsersStore) GetByID(ctx context.Context, id int64) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersStore) Create(ctx context.Context, name, email, passwordHash string, roleIDs []int64) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, passwordHash, roleIDs)
	}
	return user.User{}, nil
}

func (f *fakeUsersStore) Update(ctx context.Context, id int64, name, email string, passwordHash *string, roleIDs []int64) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, name, email, passwordHash, roleIDs)
	}
	return user.User{}, nil
}

func (f *fakeUsersStore) SetActive(ctx context.Context, id int64, active bool) (user.User, error) {
	if f.setActiveFn != nil {
		return f.setActiveFn(ctx, id, active)
	}
	return user.User{}, nil
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		store      *fakeUsersStore
		wantStatus int
	}{
		{
			name: "created",
			body: `{"name":"Ana","email":"ana@example.com","password":"longenough","roles":[1,2]}`,
			store: &fakeUsersStore{createFn: func(ctx context.Context, name, email, passwordHash string, roleIDs []int64) (user.User, error) {
				if name != "Ana" || email != "ana@example.com" {
					t.Fatalf("unexpected args: %s %s", name, email)
				}
				if passwordHash == "longenough" {
					t.Fatalf("password must be hashed before hitting the store")
				}
				if err := security.CheckPassword(passwordHash, "longenough"); err != nil {
					t.Fatalf("stored hash does not verify: %v", err)
				}
				if len(roleIDs) != 2 {
					t.Fatalf("expected 2 role ids, got %v", roleIDs)
				}
				return user.User{ID: 10, Name: name, Email: email, Active: true, Roles: []string{"admin", "seller"}}, nil
			}},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ana","email":"ana@example.com","password":"longenough","roles":[1]}`,
			store: &fakeUsersStore{createFn: func(ctx context.Context, name, email, passwordHash string, roleIDs []int64) (user.User, error) {
				return user.User{}, user.ErrEmailTaken
			}},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "short password",
			body:       `{"name":"Ana","email":"ana@example.com","password":"short","roles":[1]}`,
			store:      &fakeUsersStore{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing email",
			body:       `{"name":"Ana","password":"longenough","roles":[1]}`,
			store:      &fakeUsersStore{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handlers.NewUsersHandler(tc.store)
			r := setupRouter(http.MethodPost, "/users", h.CreateUser)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d (body=%s)", tc.wantStatus, w.Code, w.Body.String())
			}

			if tc.wantStatus == http.StatusCreated {
				if bytes.Contains(w.Body.Bytes(), []byte("passwordHash")) {
					t.Fatalf("response must not leak the password hash")
				}
			}
		})
	}
}

func TestListUsersHandler_Sanitized(t *testing.T) {
	store := &fakeUsersStore{listFn: func(ctx context.Context) ([]user.User, error) {
		return []user.User{
			{ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$10$secret", Active: true, Roles: []string{"admin"}},
			{ID: 2, Name: "Ben", Email: "ben@example.com", PasswordHash: "$2a$10$secret", Active: false},
		}, nil
	}}

	h := handlers.NewUsersHandler(store)
	r := setupRouter(http.MethodGet, "/users", h.ListUsers)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("secret")) {
		t.Fatalf("response must not contain password hashes")
	}

	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 users, got %d", len(out))
	}
	// a user without roles still serializes an empty array, not null
	if out[1]["roles"] == nil {
		t.Fatalf("roles should serialize as [], got null")
	}
}

func TestGetUserByIDHandler(t *testing.T) {
	store := &fakeUsersStore{getFn: func(ctx context.Context, id int64) (user.User, error) {
		if id == 1 {
			return user.User{ID: 1, Name: "Ana", Email: "ana@example.com", Active: true}, nil
		}
		return user.User{}, user.ErrNotFound
	}}

	h := handlers.NewUsersHandler(store)
	r := setupRouter(http.MethodGet, "/users/:id", h.GetUserByID)

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/users/1", http.StatusOK},
		{"/users/999", http.StatusNotFound},
		{"/users/abc", http.StatusBadRequest},
		{"/users/0", http.StatusBadRequest},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tc.wantStatus {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.wantStatus, w.Code)
		}
	}
}

func TestSetUserActiveHandler(t *testing.T) {
	var gotActive *bool

	store := &fakeUsersStore{setActiveFn: func(ctx context.Context, id int64, active bool) (user.User, error) {
		gotActive = &active
		return user.User{ID: id, Active: active}, nil
	}}

	h := handlers.NewUsersHandler(store)
	r := setupRouter(http.MethodPatch, "/users/:id", h.SetUserActive)

	req := httptest.NewRequest(http.MethodPatch, "/users/3", bytes.NewBufferString(`{"active":false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body=%s)", w.Code, w.Body.String())
	}
	if gotActive == nil || *gotActive != false {
		t.Fatalf("expected SetActive(false) to be called")
	}

	// missing active field must not default to anything
	req = httptest.NewRequest(http.MethodPatch, "/users/3", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing active, got %d", w.Code)
	}
}
