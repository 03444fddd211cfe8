package domain

import (
	"strings"
	"testing"
)

func TestParseCategoryClosure(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"tech", CategoryTech},
		{"Tech", CategoryTech},
		{"  networking ", CategoryNetworking},
		{"Business & Professional", CategoryOther},
		{"", CategoryOther},
		{"garbage", CategoryOther},
	}

	for _, tc := range cases {
		if got := ParseCategory(tc.in); got != tc.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDedupCategories(t *testing.T) {
	got := DedupCategories([]Category{CategoryTech, CategoryCommunity, CategoryTech, CategoryCommunity})
	if len(got) != 2 || got[0] != CategoryTech || got[1] != CategoryCommunity {
		t.Errorf("DedupCategories = %v, want [tech community]", got)
	}
}

func TestTruncateDescription(t *testing.T) {
	long := strings.Repeat("é", MaxDescriptionLen+100)
	got := TruncateDescription(long)
	if n := len([]rune(got)); n != MaxDescriptionLen {
		t.Errorf("truncated length = %d, want %d", n, MaxDescriptionLen)
	}

	short := "short"
	if TruncateDescription(short) != short {
		t.Error("short description must be untouched")
	}
}

func TestSourceKeyValid(t *testing.T) {
	if (SourceKey{Platform: PlatformEventbrite, ID: "E1"}).Valid() != true {
		t.Error("full key must be valid")
	}
	if (SourceKey{Platform: PlatformEventbrite}).Valid() {
		t.Error("key without id must be invalid")
	}
	if (SourceKey{ID: "E1"}).Valid() {
		t.Error("key without platform must be invalid")
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "approved", "rejected"} {
		if !ValidStatus(s) {
			t.Errorf("status %q must be valid", s)
		}
	}
	for _, s := range []string{"", "PENDING", "new", "deleted"} {
		if ValidStatus(s) {
			t.Errorf("status %q must be invalid", s)
		}
	}
}
