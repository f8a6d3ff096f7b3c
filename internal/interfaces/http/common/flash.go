package common

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	flashCookieName = "fl_flash"
	flashCookieTTL  = 10 * time.Minute
)

// FlashKind classifies a transient flash message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is one transient message held for the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// SetFlash writes an HMAC-signed, short-lived flash cookie.
func SetFlash(w http.ResponseWriter, secret []byte, secure bool, flash Flash) {
	if len(secret) == 0 {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    signFlash(secret, flash, time.Now().UTC()),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flashCookieTTL / time.Second),
	})
}

// TakeFlash reads, verifies, and clears the flash cookie. The second
// return is false when no valid, unexpired flash is present.
func TakeFlash(w http.ResponseWriter, r *http.Request, secret []byte) (Flash, bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return Flash{}, false
	}

	clearFlash(w)

	flash, issuedAt, ok := parseFlash(secret, cookie.Value)
	if !ok || time.Since(issuedAt) > flashCookieTTL {
		return Flash{}, false
	}
	return flash, true
}

func clearFlash(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func signFlash(secret []byte, flash Flash, issuedAt time.Time) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(flash.Message))
	payload := fmt.Sprintf("k=%s&m=%s&ts=%d", flash.Kind, encoded, issuedAt.Unix())
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return payload + "&sig=" + sig
}

func parseFlash(secret []byte, raw string) (Flash, time.Time, bool) {
	if len(secret) == 0 {
		return Flash{}, time.Time{}, false
	}

	parts := strings.Split(raw, "&")
	if len(parts) < 4 {
		return Flash{}, time.Time{}, false
	}
	values := make(map[string]string, len(parts))
	for _, part := range parts {
		keyValue := strings.SplitN(part, "=", 2)
		if len(keyValue) != 2 {
			continue
		}
		values[keyValue[0]] = keyValue[1]
	}

	kind := values["k"]
	encoded := values["m"]
	timestamp := values["ts"]
	sig := values["sig"]
	if kind == "" || timestamp == "" || sig == "" {
		return Flash{}, time.Time{}, false
	}

	payload := fmt.Sprintf("k=%s&m=%s&ts=%s", kind, encoded, timestamp)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	expectedSig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expectedSig), []byte(sig)) {
		return Flash{}, time.Time{}, false
	}

	message, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return Flash{}, time.Time{}, false
	}
	tsInt, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return Flash{}, time.Time{}, false
	}

	return Flash{Kind: FlashKind(kind), Message: string(message)}, time.Unix(tsInt, 0), true
}
