package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/abhishek622/exitview/pkg"
	"github.com/abhishek622/exitview/pkg/model"
)

func TestSignUpAndLogin(t *testing.T) {
	e := newTestEnv(t)

	code, env := e.do(t, http.MethodPost, "/signup", map[string]any{
		"name":     "Ravi Kumar",
		"email":    "Ravi@Example.com",
		"password": "s3cret-pass",
		"role":     "interviewer",
	})
	if code != http.StatusCreated {
		t.Fatalf("signup: status=%d error=%+v", code, env.Error)
	}
	var user model.UserRes
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "ravi@example.com" || user.Role != model.UserRoleInterviewer {
		t.Fatalf("user=%+v", user)
	}

	code, _ = e.do(t, http.MethodPost, "/signup", map[string]any{
		"name": "Ravi Again", "email": "ravi@example.com", "password": "s3cret-pass",
	})
	if code != http.StatusConflict {
		t.Fatalf("duplicate signup: status=%d, want 409", code)
	}

	code, _ = e.do(t, http.MethodPost, "/signup", map[string]any{
		"name": "Root", "email": "root@example.com", "password": "s3cret-pass", "role": "admin",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("admin signup: status=%d, want 400", code)
	}

	code, _ = e.do(t, http.MethodPost, "/login", map[string]any{"email": "ravi@example.com", "password": "wrong-pass"})
	if code != http.StatusUnauthorized {
		t.Fatalf("bad password: status=%d, want 401", code)
	}

	code, env = e.do(t, http.MethodPost, "/login", map[string]any{"email": "RAVI@example.com", "password": "s3cret-pass"})
	if code != http.StatusOK {
		t.Fatalf("login: status=%d error=%+v", code, env.Error)
	}
	var login model.LoginUserRes
	if err := json.Unmarshal(env.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	claims, err := e.handler.TokenMaker.VerifyToken(login.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != user.UserID || claims.Role != model.UserRoleInterviewer {
		t.Fatalf("claims=%+v", claims)
	}

	code, env = e.do(t, http.MethodGet, "/interviewers", nil)
	if code != http.StatusOK {
		t.Fatalf("interviewers: status=%d", code)
	}
	var interviewers []model.UserRes
	if err := json.Unmarshal(env.Data, &interviewers); err != nil || len(interviewers) != 1 {
		t.Fatalf("interviewers=%s err=%v", env.Data, err)
	}

	if code, _ := e.do(t, http.MethodGet, "/me", nil); code != http.StatusUnauthorized {
		t.Fatalf("me without claims: status=%d, want 401", code)
	}
}

func TestSignUp_OnlyInterviewers(t *testing.T) {
	e := newTestEnv(t)

	code, env := e.do(t, http.MethodPost, "/signup", map[string]any{
		"name": "No Role", "email": "norole@example.com", "password": "s3cret-pass",
	})
	if code != http.StatusCreated {
		t.Fatalf("signup without role: status=%d error=%+v", code, env.Error)
	}
	var user model.UserRes
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Role != model.UserRoleInterviewer {
		t.Fatalf("role=%s, want interviewer", user.Role)
	}

	code, _ = e.do(t, http.MethodPost, "/signup", map[string]any{
		"name": "Ops", "email": "ops2@example.com", "password": "s3cret-pass", "role": "operator",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("operator signup: status=%d, want 400", code)
	}
	if _, err := e.handler.Users.GetByEmail(context.Background(), "ops2@example.com"); err == nil {
		t.Fatal("rejected operator signup was persisted")
	}
}

func TestCreateUser(t *testing.T) {
	e := newTestEnv(t)

	code, env := e.do(t, http.MethodPost, "/users", map[string]any{
		"name": "Shift Lead", "email": "Lead@Example.com", "password": "s3cret-pass", "role": "operator",
	})
	if code != http.StatusCreated {
		t.Fatalf("create operator: status=%d error=%+v", code, env.Error)
	}
	var user model.UserRes
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "lead@example.com" || user.Role != model.UserRoleOperator {
		t.Fatalf("user=%+v", user)
	}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"admin role", map[string]any{"name": "Root", "email": "root@example.com", "password": "s3cret-pass", "role": "admin"}, http.StatusBadRequest},
		{"missing role", map[string]any{"name": "Nobody", "email": "nobody@example.com", "password": "s3cret-pass"}, http.StatusBadRequest},
		{"duplicate email", map[string]any{"name": "Lead", "email": "lead@example.com", "password": "s3cret-pass", "role": "interviewer"}, http.StatusConflict},
	}
	for _, tc := range tests {
		if code, _ := e.do(t, http.MethodPost, "/users", tc.body); code != tc.want {
			t.Errorf("%s: status=%d, want %d", tc.name, code, tc.want)
		}
	}
}

func TestEnsureAdmin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	if err := e.handler.EnsureAdmin(ctx, "Admin", "Root@Example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	admin, err := e.handler.Users.GetByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if admin.Role != model.UserRoleAdmin || pkg.ComparePassword(admin.PasswordHash, "bootstrap-pass") != nil {
		t.Fatalf("admin=%+v", admin)
	}

	// second run keeps the existing account
	if err := e.handler.EnsureAdmin(ctx, "Admin", "root@example.com", "other-pass-123"); err != nil {
		t.Fatalf("EnsureAdmin again: %v", err)
	}
	again, err := e.handler.Users.GetByEmail(ctx, "root@example.com")
	if err != nil || again.UserID != admin.UserID || again.PasswordHash != admin.PasswordHash {
		t.Fatalf("admin replaced: %+v err=%v", again, err)
	}
}
