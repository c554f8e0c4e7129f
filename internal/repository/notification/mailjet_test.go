//go:build !integration

package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kenyaMart/domain"

	"github.com/shopspring/decimal"
)

func TestSendOrderConfirmation(t *testing.T) {
	var got payloadSendEmail
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3.1/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{
		MailjetBaseURL:           srv.URL,
		MailjetBasicAuthUsername: "key",
		MailjetBasicAuthPassword: "secret",
		MailjetSenderEmail:       "orders@kenyamart.test",
		MailjetSenderName:        "KenyaMart",
	})

	order := domain.Order{
		ID:          "0f8e6c2a-1111-2222-3333-444455556666",
		TotalAmount: decimal.RequireFromString("191"),
		Items: []domain.OrderItem{
			{ProductID: "milk", Quantity: 2, Price: decimal.RequireFromString("65.5")},
		},
	}

	if err := repo.SendOrderConfirmation(context.Background(), "buyer@example.com", order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Basic a2V5OnNlY3JldA==" {
		t.Fatalf("authorization = %q", auth)
	}
	if len(got.Messages) != 1 || got.Messages[0].To[0].Email != "buyer@example.com" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	msg := got.Messages[0]
	if !strings.Contains(msg.Subject, "0F8E6C2A") {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.TextPart, "KES 191.00") || !strings.Contains(msg.TextPart, "2 x milk @ KES 65.50") {
		t.Fatalf("text = %q", msg.TextPart)
	}
}

func TestSendOrderConfirmation_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ErrorMessage":"bad sender"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{MailjetBaseURL: srv.URL, MailjetSenderEmail: "x@y.z"})
	if err := repo.SendOrderConfirmation(context.Background(), "buyer@example.com", domain.Order{ID: "abc"}); err == nil {
		t.Fatal("expected error for a 400 response")
	}
}
