package account

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	users  map[int]*User
	nextID int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{users: make(map[int]*User), nextID: 1}
}

func (r *fakeAccountRepo) Create(ctx context.Context, user *User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	r.nextID++
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeAccountRepo) Update(ctx context.Context, user *User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = user.Name
	stored.Phone = user.Phone
	stored.Address = user.Address
	stored.Latitude = user.Latitude
	stored.Longitude = user.Longitude
	return nil
}

func TestRegisterHashesCredential(t *testing.T) {
	service := NewService(newFakeAccountRepo())

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "a@x.com",
		Password: "secret",
		Name:     "A",
		UserType: "parent",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.PasswordHash == "secret" {
		t.Fatal("credential stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")); err != nil {
		t.Fatalf("stored hash does not match credential: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	service := NewService(repo)

	input := RegisterInput{Email: "a@x.com", Password: "secret", Name: "A", UserType: "parent"}
	if _, err := service.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := service.Register(context.Background(), input)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected 1 stored account, got %d", len(repo.users))
	}
}

func TestAuthenticate(t *testing.T) {
	service := NewService(newFakeAccountRepo())

	if _, err := service.Register(context.Background(), RegisterInput{
		Email: "a@x.com", Password: "secret", Name: "A", UserType: "parent",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := service.Authenticate(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}

	if _, err := service.Authenticate(context.Background(), "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody@x.com", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpdateProfileIsPartial(t *testing.T) {
	service := NewService(newFakeAccountRepo())

	user, err := service.Register(context.Background(), RegisterInput{
		Email: "a@x.com", Password: "secret", Name: "A", UserType: "parent",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	phone := "555-0101"
	updated, err := service.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Phone: &phone})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if updated.Name != "A" {
		t.Fatalf("name changed unexpectedly: %q", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("phone not applied: %v", updated.Phone)
	}
	if updated.Email != "a@x.com" {
		t.Fatalf("email must be immutable, got %q", updated.Email)
	}
}

func TestGetNotFound(t *testing.T) {
	service := NewService(newFakeAccountRepo())
	if _, err := service.Get(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	mutations := map[string]func(*RegisterInput){
		"email":    func(in *RegisterInput) { in.Email = "   " },
		"password": func(in *RegisterInput) { in.Password = "" },
		"name":     func(in *RegisterInput) { in.Name = "\t" },
		"userType": func(in *RegisterInput) { in.UserType = " " },
	}

	for field, mutate := range mutations {
		repo := newFakeAccountRepo()
		service := NewService(repo)
		input := RegisterInput{Email: "a@x.com", Password: "secret", Name: "A", UserType: "parent"}
		mutate(&input)
		if _, err := service.Register(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("blank %s: expected ErrInvalidInput, got %v", field, err)
		}
		if len(repo.users) != 0 {
			t.Fatalf("blank %s: rejected register must not persist", field)
		}
	}
}
