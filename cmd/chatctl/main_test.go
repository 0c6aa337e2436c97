package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"encrypto-chat/internal/dto"
)

func TestClientCallSendsTokenAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid token"}`))
			return
		}
		var req dto.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MessageContent != "hi" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(dto.SendMessageResponse{MessageID: "m1", ConversationID: "a_b"})
	}))
	defer srv.Close()

	c := &client{baseURL: srv.URL + "/", token: "tok", http: srv.Client()}
	var res dto.SendMessageResponse
	if err := c.call(http.MethodPost, "/v1/messages", dto.SendMessageRequest{MessageContent: "hi"}, &res); err != nil {
		t.Fatalf("call: %v", err)
	}
	if res.MessageID != "m1" || res.ConversationID != "a_b" {
		t.Fatalf("unexpected response %+v", res)
	}

	c.token = ""
	err := c.call(http.MethodPost, "/v1/messages", dto.SendMessageRequest{MessageContent: "hi"}, &res)
	if err == nil || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}

func TestPrintJSONIndents(t *testing.T) {
	var b strings.Builder
	if err := printJSON(&b, dto.CreateUserResponse{UserID: "u1"}); err != nil {
		t.Fatalf("printJSON: %v", err)
	}
	if b.String() != "{\n  \"userId\": \"u1\"\n}\n" {
		t.Fatalf("unexpected output %q", b.String())
	}
}
