package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestL2HeadersAt(t *testing.T) {
	secret := base64.StdEncoding.EncodeToString([]byte("topsecret"))
	auth := &HMACAuth{
		Key:        "api-key",
		Secret:     secret,
		Passphrase: "pass",
	}

	headers := auth.L2HeadersAt("0xabc", "GET", "/book?token_id=1", "", 1700000000)

	if headers["POLY_ADDRESS"] != "0xabc" {
		t.Errorf("POLY_ADDRESS = %q", headers["POLY_ADDRESS"])
	}
	if headers["POLY_API_KEY"] != "api-key" {
		t.Errorf("POLY_API_KEY = %q", headers["POLY_API_KEY"])
	}
	if headers["POLY_TIMESTAMP"] != "1700000000" {
		t.Errorf("POLY_TIMESTAMP = %q", headers["POLY_TIMESTAMP"])
	}
	if headers["POLY_PASSPHRASE"] != "pass" {
		t.Errorf("POLY_PASSPHRASE = %q", headers["POLY_PASSPHRASE"])
	}

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte("1700000000GET/book?token_id=1"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if headers["POLY_SIGNATURE"] != want {
		t.Errorf("POLY_SIGNATURE = %q, want %q", headers["POLY_SIGNATURE"], want)
	}
}

func TestL2HeadersAtDeterministic(t *testing.T) {
	auth := &HMACAuth{Key: "k", Secret: "not-base64!", Passphrase: "p"}

	a := auth.L2HeadersAt("0xabc", "GET", "/book", "", 42)
	b := auth.L2HeadersAt("0xabc", "GET", "/book", "", 42)
	if a["POLY_SIGNATURE"] != b["POLY_SIGNATURE"] {
		t.Error("same inputs produced different signatures")
	}

	c := auth.L2HeadersAt("0xabc", "GET", "/book", "", 43)
	if a["POLY_SIGNATURE"] == c["POLY_SIGNATURE"] {
		t.Error("different timestamps produced the same signature")
	}
}
