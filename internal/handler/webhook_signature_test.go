package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"rabet/config"
)

func TestVerifySignature(t *testing.T) {
	h := &WebhookHandler{cfg: config.PaymentConfig{WebhookSecret: "shh"}}
	body := []byte(`{"session_id":"abc","wallet_id":1,"amount":50,"status":"success"}`)

	mac := hmac.New(sha256.New, []byte("shh"))
	mac.Write(body)
	good := hex.EncodeToString(mac.Sum(nil))

	if !h.verifySignature(body, good) {
		t.Error("valid signature rejected")
	}
	if h.verifySignature(body, "deadbeef") {
		t.Error("bogus signature accepted")
	}
	if h.verifySignature([]byte("tampered"), good) {
		t.Error("signature accepted for tampered body")
	}
	if h.verifySignature(body, "") {
		t.Error("empty signature accepted")
	}
}
