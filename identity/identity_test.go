package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNew(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("Expected error for missing secret")
	}

	svc, err := New(Config{Secret: []byte("s")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if svc.cfg.TTL != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, svc.cfg.TTL)
	}
}

func TestService_IssueValidate(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := New(Config{Secret: []byte("secret"), Now: fixedClock(now)})

	token, err := svc.Issue("U1", "alice")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if claims.UserID != "U1" || claims.Username != "alice" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("Expected expiry %v, got %v", now.Add(24*time.Hour), claims.ExpiresAt)
	}
}

func TestService_Validate_Rejects(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := New(Config{Secret: []byte("secret"), Now: fixedClock(now)})
	valid, _ := svc.Issue("U1", "alice")

	expired := func() string {
		old, _ := New(Config{Secret: []byte("secret"), Now: fixedClock(now.Add(-48 * time.Hour))})
		token, _ := old.Issue("U1", "alice")
		return token
	}

	otherSecret := func() string {
		other, _ := New(Config{Secret: []byte("other"), Now: fixedClock(now)})
		token, _ := other.Issue("U1", "alice")
		return token
	}

	noUser := func() string {
		token, _ := svc.Issue("", "alice")
		return token
	}

	wrongAlg := func() string {
		claims := tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
			UserID:           "U1",
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "tampered", token: valid + "x"},
		{name: "expired", token: expired()},
		{name: "other secret", token: otherSecret()},
		{name: "missing user id", token: noUser()},
		{name: "wrong algorithm", token: wrongAlg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestService_Issuer(t *testing.T) {
	a, _ := New(Config{Secret: []byte("secret"), Issuer: "a"})
	b, _ := New(Config{Secret: []byte("secret"), Issuer: "b"})

	token, _ := a.Issue("U1", "alice")
	if _, err := a.Validate(token); err != nil {
		t.Errorf("Expected token to validate for its issuer: %v", err)
	}
	if _, err := b.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected issuer mismatch to fail, got %v", err)
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer abc", want: "abc", ok: true},
		{header: "bearer abc", want: "abc", ok: true},
		{header: "  Bearer   abc  ", want: "abc", ok: true},
		{header: "Bearer", ok: false},
		{header: "Bearer ", ok: false},
		{header: "Basic abc", ok: false},
		{header: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := ParseBearer(tt.header)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseBearer(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "pw" {
		t.Error("Hash should not return the password")
	}

	if err := h.Compare(hash, "pw"); err != nil {
		t.Errorf("Compare failed for matching password: %v", err)
	}
	if err := h.Compare(hash, "wrong"); err == nil {
		t.Error("Compare succeeded for wrong password")
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != bcrypt.MinCost {
		t.Errorf("Expected cost %d, got %d (%v)", bcrypt.MinCost, cost, err)
	}
}
