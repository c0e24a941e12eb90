package utils

import (
	"math/rand"
	"strings"
	"testing"
)

func TestGenerateRoomCode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := GenerateRoomCode(rng)
		if len(code) != CodeLength {
			t.Fatalf("Code %q has length %d", code, len(code))
		}
		for _, r := range code {
			if strings.ContainsAny(string(r), "0O1I") {
				t.Errorf("Code %q contains ambiguous character %q", code, r)
			}
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Errorf("Code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 95 {
		t.Errorf("Expected ~100 distinct codes, got %d", len(seen))
	}
}

func TestNormalizeRoomCode(t *testing.T) {
	if got := NormalizeRoomCode("  ab2def "); got != "AB2DEF" {
		t.Errorf("NormalizeRoomCode = %q", got)
	}
}

func TestValidRoomCode(t *testing.T) {
	if !ValidRoomCode("AB2DEF") {
		t.Error("AB2DEF should be valid")
	}
	for _, code := range []string{"", "ABC", "AB2DEF7", "AB0DEF", "ab2def"} {
		if ValidRoomCode(code) {
			t.Errorf("%q should be invalid", code)
		}
	}
}
