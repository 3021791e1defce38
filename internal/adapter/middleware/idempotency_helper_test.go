package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func Test_bodyHash(t *testing.T) {
	data := []byte("hello world")
	sum := sha256.Sum256(data)
	if got, want := bodyHash(data), hex.EncodeToString(sum[:]); got != want {
		t.Fatalf("bodyHash mismatch: got %s want %s", got, want)
	}
}

func Test_nowUTC(t *testing.T) {
	u := nowUTC()
	if u.Location() != time.UTC {
		t.Fatalf("nowUTC must be UTC, got %v", u.Location())
	}
}

func Test_buildKey(t *testing.T) {
	k := buildKey("POST", "/payments/emi/verify", "applicant-1", strings.Repeat("a", 32))
	if !strings.HasPrefix(k, "idemp:post:/payments/emi/verify:applicant-1:") {
		t.Fatalf("buildKey prefix mismatch: %q", k)
	}
	if !strings.HasSuffix(k, strings.Repeat("a", 32)) {
		t.Fatalf("buildKey missing key segment: %q", k)
	}
}

func Test_validIdempotencyKey(t *testing.T) {
	valid := []string{
		"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88",
		strings.Repeat("a", 32),
	}
	for _, s := range valid {
		if !validIdempotencyKey(s) {
			t.Fatalf("should accept %q", s)
		}
	}
	invalid := []string{
		"",
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz",
		"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88",
	}
	for _, s := range invalid {
		if validIdempotencyKey(s) {
			t.Fatalf("should reject %q", s)
		}
	}
}

func Test_parseRequestAt(t *testing.T) {
	sec := time.Now().UTC().Unix()
	ts, err := parseRequestAt(strconv.FormatInt(sec, 10))
	if err != nil || !ts.Equal(time.Unix(sec, 0)) {
		t.Fatalf("epoch seconds: ts=%v err=%v", ts, err)
	}

	ms := time.Now().UTC().UnixMilli()
	ts, err = parseRequestAt(strconv.FormatInt(ms, 10))
	if err != nil || !ts.Equal(time.UnixMilli(ms)) {
		t.Fatalf("epoch millis: ts=%v err=%v", ts, err)
	}

	ts, err = parseRequestAt("2025-09-05T10:00:00+05:30")
	if err != nil || !ts.Equal(time.Date(2025, 9, 5, 4, 30, 0, 0, time.UTC)) {
		t.Fatalf("rfc3339: ts=%v err=%v", ts, err)
	}

	for _, raw := range []string{"", "not-a-time", "2025-09-05T10:00:00", "1736123456abc"} {
		if _, err := parseRequestAt(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func Test_provisionalSet_LoadEntry_Release(t *testing.T) {
	_, rdb := newMiniRedis(t)
	ctx := context.Background()

	key := buildKey("POST", "/x", "s", strings.Repeat("a", 32))
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{"a":1}`)), Key: strings.Repeat("a", 32)}

	ok, err := provisionalSet(ctx, rdb, key, entry)
	if err != nil || !ok {
		t.Fatalf("provisionalSet 1: ok=%v err=%v", ok, err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("provisional TTL not set correctly: %v", ttl)
	}
	ok, err = provisionalSet(ctx, rdb, key, entry)
	if err != nil || ok {
		t.Fatalf("provisionalSet 2 must lose: ok=%v err=%v", ok, err)
	}

	got, err := loadEntry(ctx, rdb, key)
	if err != nil || !got.InProgress || got.BodySHA256 != entry.BodySHA256 {
		t.Fatalf("loaded entry mismatch: %+v err=%v", got, err)
	}

	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := loadEntry(ctx, rdb, key); err == nil {
		t.Fatal("entry should be gone after release")
	}
}

func Test_saveFinal_TTL(t *testing.T) {
	_, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/x", "s", strings.Repeat("a", 32))

	final := idempEntry{Code: 201, Body: []byte(`{"ok":true}`)}
	if err := saveFinal(ctx, rdb, key, final, 5*time.Second); err != nil {
		t.Fatalf("saveFinal err: %v", err)
	}
	if ttl := rdb.TTL(ctx, key).Val(); ttl <= 0 || ttl > 5*time.Second {
		t.Fatalf("final TTL out of range: %v", ttl)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil || got.Code != 201 || string(got.Body) != `{"ok":true}` || got.InProgress {
		t.Fatalf("final entry mismatch: %+v err=%v", got, err)
	}
}
