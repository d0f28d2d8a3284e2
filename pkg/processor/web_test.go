package processor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateSessionRequiresCredentials(t *testing.T) {
	f := NewWebFactory("http://unreachable.invalid")
	if _, err := f.CreateSession(context.Background(), "", "loc"); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("empty app id err = %v, want ErrMissingCredentials", err)
	}
	if _, err := f.CreateSession(context.Background(), "app", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("empty location id err = %v, want ErrMissingCredentials", err)
	}

	if _, err := (StubFactory{}).CreateSession(context.Background(), "", ""); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("stub err = %v, want ErrMissingCredentials", err)
	}
}

func TestCreateSessionWrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewWebFactory(srv.URL)
	_, err := f.CreateSession(context.Background(), "app", "loc")
	var loadErr *SDKLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *SDKLoadError", err)
	}
}

func TestWebSessionFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/web/sessions":
			json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-1"})
		case "/v1/web/sessions/sess-1/card":
			json.NewEncoder(w).Encode(map[string]string{"card_id": "card-1"})
		case "/v1/web/cards/card-1/attach":
			w.WriteHeader(http.StatusOK)
		case "/v1/web/cards/card-1/tokenize":
			json.NewEncoder(w).Encode(TokenizeResult{Status: TokenizeOK, Token: "tok_live"})
		case "/v1/web/sessions/sess-1/verify-buyer":
			json.NewEncoder(w).Encode(Verification{Token: "ver_live"})
		case "/v1/web/cards/card-1":
			if r.Method != http.MethodDelete {
				t.Errorf("card teardown method = %s", r.Method)
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewWebFactory(srv.URL)
	ctx := context.Background()

	sess, err := f.CreateSession(ctx, "app", "loc")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	card, err := sess.Card(ctx, CardStyle{FontFamily: "sans-serif"})
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if err := card.Attach(ctx, "card-container-1"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	tok, err := card.Tokenize(ctx, TokenizeRequest{BillingPostalCode: "62701"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tok.Status != TokenizeOK || tok.Token != "tok_live" {
		t.Errorf("tokenize result = %+v", tok)
	}
	ver, err := sess.VerifyBuyer(ctx, tok.Token, VerifyDetails{Intent: "CHARGE"})
	if err != nil {
		t.Fatalf("VerifyBuyer: %v", err)
	}
	if ver.Token != "ver_live" {
		t.Errorf("verification token = %q", ver.Token)
	}
	if err := card.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}

func TestDestroyToleratesNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewWebFactory(srv.URL)
	card := &webCard{factory: f, sessionID: "s", id: "gone"}
	if err := card.Destroy(); err != nil {
		t.Errorf("Destroy on missing card: %v", err)
	}
}
