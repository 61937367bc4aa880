package auth

import (
	"context"
	"testing"

	"github.com/threadmind/threadmind/internal/db"
	"github.com/threadmind/threadmind/internal/faults"
	"github.com/threadmind/threadmind/internal/models"
	"github.com/threadmind/threadmind/internal/tokens"
)

// fakeUserStore enforces the same uniqueness rules as the real table.
type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return db.ErrDuplicate
		}
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	if u, ok := f.users[id]; ok {
		u.Password = hash
	}
	return nil
}

type fakeSessionStore struct {
	sessions map[string]int64
	counter  int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]int64)}
}

func (f *fakeSessionStore) Create(_ context.Context, userID int64) (string, error) {
	f.counter++
	sid := string(rune('a' + f.counter))
	f.sessions[sid] = userID
	return sid, nil
}

func (f *fakeSessionStore) Destroy(_ context.Context, sid string) error {
	delete(f.sessions, sid)
	return nil
}

type fakeTokenStore struct {
	issued  map[string]int64
	counter int
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{issued: make(map[string]int64)}
}

func (f *fakeTokenStore) Issue(_ context.Context, userID int64) (string, error) {
	f.counter++
	token := string(rune('A' + f.counter))
	f.issued[token] = userID
	return token, nil
}

func (f *fakeTokenStore) Consume(_ context.Context, token string) (int64, error) {
	id, ok := f.issued[token]
	if !ok {
		return 0, tokens.ErrNotFound
	}
	delete(f.issued, token)
	return id, nil
}

func newTestService() (*Service, *fakeUserStore, *fakeSessionStore, *fakeTokenStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	tokenStore := newFakeTokenStore()
	// Cheap parameters keep the suite fast
	hasher := NewHasher(&Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	return NewService(users, sessions, tokenStore, hasher), users, sessions, tokenStore
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		email     string
		password  string
		wantField string
	}{
		{
			name:      "username too short",
			username:  "a",
			email:     "a@b.com",
			password:  "secret1",
			wantField: "username",
		},
		{
			name:      "username contains at sign",
			username:  "bob@home",
			email:     "bob@b.com",
			password:  "secret1",
			wantField: "username",
		},
		{
			name:      "email missing at sign",
			username:  "bob",
			email:     "bob.example.com",
			password:  "secret1",
			wantField: "email",
		},
		{
			name:      "password too short",
			username:  "bob",
			email:     "bob@b.com",
			password:  "four",
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, _ := newTestService()

			_, _, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			fault, ok := faults.AsFault(err)
			if !ok || fault.Kind != faults.KindValidation {
				t.Fatalf("Expected validation fault, got: %v", err)
			}
			if fault.Field != tt.wantField {
				t.Errorf("Fault field = %s, want %s", fault.Field, tt.wantField)
			}
			// No persistence side effect
			if len(users.users) != 0 {
				t.Errorf("Expected no users created, got %d", len(users.users))
			}
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc, users, sessions, _ := newTestService()

	user, sid, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected assigned user id")
	}
	if user.Password == "secret1" {
		t.Error("Password must be stored hashed")
	}
	if sessions.sessions[sid] != user.ID {
		t.Error("Expected session bound to the new user")
	}
	if len(users.users) != 1 {
		t.Errorf("Expected one user, got %d", len(users.users))
	}
}

func TestRegisterConflicts(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("First Register() error: %v", err)
	}

	_, _, err := svc.Register(ctx, "alice", "other@example.com", "secret1")
	fault, _ := faults.AsFault(err)
	if fault == nil || fault.Kind != faults.KindConflict || fault.Field != "username" {
		t.Errorf("Duplicate username: got %v, want conflict on username", err)
	}

	_, _, err = svc.Register(ctx, "bob", "alice@example.com", "secret1")
	fault, _ = faults.AsFault(err)
	if fault == nil || fault.Kind != faults.KindConflict || fault.Field != "email" {
		t.Errorf("Duplicate email: got %v, want conflict on email", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	t.Run("by username", func(t *testing.T) {
		user, sid, err := svc.Login(ctx, "alice", "secret1")
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if user.Username != "alice" || sid == "" {
			t.Errorf("Login() = (%v, %q)", user, sid)
		}
	})

	t.Run("by email", func(t *testing.T) {
		user, _, err := svc.Login(ctx, "alice@example.com", "secret1")
		if err != nil {
			t.Fatalf("Login() error: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("Login() user = %v", user)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "mallory", "secret1")
		fault, _ := faults.AsFault(err)
		if fault == nil || fault.Field != "usernameOrEmail" {
			t.Errorf("Expected field error on usernameOrEmail, got: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "not-it")
		fault, _ := faults.AsFault(err)
		if fault == nil || fault.Field != "password" {
			t.Errorf("Expected field error on password, got: %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	svc, _, sessions, _ := newTestService()
	ctx := context.Background()

	_, sid, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if ok := svc.Logout(ctx, sid); !ok {
		t.Error("Logout() = false, want true")
	}
	if _, present := sessions.sessions[sid]; present {
		t.Error("Expected session removed after logout")
	}
}

func TestForgotPassword(t *testing.T) {
	svc, _, _, tokenStore := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	t.Run("unknown email reports success without a token", func(t *testing.T) {
		ok, err := svc.ForgotPassword(ctx, "ghost@example.com")
		if err != nil || !ok {
			t.Fatalf("ForgotPassword() = (%v, %v), want (true, nil)", ok, err)
		}
		if len(tokenStore.issued) != 0 {
			t.Errorf("Expected no token for unknown email, got %d", len(tokenStore.issued))
		}
	})

	t.Run("known email mints a token", func(t *testing.T) {
		ok, err := svc.ForgotPassword(ctx, "alice@example.com")
		if err != nil || !ok {
			t.Fatalf("ForgotPassword() = (%v, %v), want (true, nil)", ok, err)
		}
		if len(tokenStore.issued) != 1 {
			t.Errorf("Expected one issued token, got %d", len(tokenStore.issued))
		}
	})
}

func TestChangePassword(t *testing.T) {
	svc, users, _, tokenStore := newTestService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	t.Run("short password", func(t *testing.T) {
		_, _, err := svc.ChangePassword(ctx, "whatever", "tiny")
		fault, _ := faults.AsFault(err)
		if fault == nil || fault.Kind != faults.KindValidation || fault.Field != "newPassword" {
			t.Errorf("Expected validation fault on newPassword, got: %v", err)
		}
	})

	t.Run("never-issued token", func(t *testing.T) {
		_, _, err := svc.ChangePassword(ctx, "bogus", "longenough")
		fault, _ := faults.AsFault(err)
		if fault == nil || fault.Kind != faults.KindToken {
			t.Errorf("Expected token fault, got: %v", err)
		}
	})

	t.Run("valid token consumed exactly once", func(t *testing.T) {
		token, _ := tokenStore.Issue(ctx, user.ID)

		changed, sid, err := svc.ChangePassword(ctx, token, "newsecret")
		if err != nil {
			t.Fatalf("ChangePassword() error: %v", err)
		}
		if changed.ID != user.ID || sid == "" {
			t.Errorf("ChangePassword() = (%v, %q)", changed, sid)
		}

		// New credential works, old one doesn't
		if _, _, err := svc.Login(ctx, "alice", "newsecret"); err != nil {
			t.Errorf("Login with new password failed: %v", err)
		}
		if _, _, err := svc.Login(ctx, "alice", "secret1"); err == nil {
			t.Error("Login with old password should fail")
		}

		// Second consumption reports the token fault
		_, _, err = svc.ChangePassword(ctx, token, "anothersecret")
		fault, _ := faults.AsFault(err)
		if fault == nil || fault.Kind != faults.KindToken || fault.Message != "Token expired" {
			t.Errorf("Expected token-expired fault, got: %v", err)
		}
	})

	t.Run("user deleted behind a valid token", func(t *testing.T) {
		token, _ := tokenStore.Issue(ctx, user.ID)
		delete(users.users, user.ID)

		_, _, err := svc.ChangePassword(ctx, token, "longenough")
		fault, _ := faults.AsFault(err)
		if fault == nil || fault.Kind != faults.KindToken || fault.Message != "User no longer exists" {
			t.Errorf("Expected user-gone token fault, got: %v", err)
		}
	})
}
