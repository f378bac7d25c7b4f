package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenIssueVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")
	id := Identity{UserID: 7, RestaurantID: 3, Role: "manager"}

	tok, err := issuer.Issue(id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != id {
		t.Fatalf("round trip: got %+v want %+v", got, id)
	}

	if _, err := NewTokenIssuer("other-secret").Verify(tok); err == nil {
		t.Fatal("token verified with wrong secret")
	}
	if _, err := issuer.Verify("garbage"); err == nil {
		t.Fatal("garbage token verified")
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if BearerToken(r) != "" {
		t.Fatal("expected empty token without header")
	}
	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	if BearerToken(r) != "abc.def.ghi" {
		t.Fatalf("got %q", BearerToken(r))
	}
	r.Header.Set("Authorization", "Basic dXNlcg==")
	if BearerToken(r) != "" {
		t.Fatal("non-bearer scheme must be ignored")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := NewSessionStore("cookie-secret")
	w := httptest.NewRecorder()
	store.Create(w, 42)

	r := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	uid, ok := store.Parse(r)
	if !ok || uid != 42 {
		t.Fatalf("parse: uid=%d ok=%v", uid, ok)
	}

	// Tampered cookie must be rejected.
	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(&http.Cookie{Name: "session", Value: "43." + "forgedsignature"})
	if _, ok := store.Parse(r2); ok {
		t.Fatal("forged session accepted")
	}
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("empty context must not carry identity")
	}
	id := Identity{UserID: 5, RestaurantID: 2, Role: "staff"}
	ctx = WithIdentity(ctx, id)
	got, ok := IdentityFromContext(ctx)
	if !ok || got != id {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
}
