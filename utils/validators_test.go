package utils

import (
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"Opening day #Cubs #MLB", []string{"Cubs", "MLB"}},
		{"#cubs #Cubs #cubs", []string{"cubs", "Cubs"}},
		{"no tags here", []string{}},
		{"trailing #", []string{}},
		{"#go_cubs_go!", []string{"go_cubs_go"}},
	}
	for _, tt := range tests {
		if got := ExtractHashtags(tt.content); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractHashtags(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestExtractMentions(t *testing.T) {
	got := ExtractMentions("hey @alice and @bob, @alice again (mail me at x@y)")
	want := []string{"alice", "bob", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractMentions = %v, want %v", got, want)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" #Cubs", "Cubs", "", "  ", "#MLB"}, "#")
	want := []string{"Cubs", "MLB"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestStripWhitespace(t *testing.T) {
	if got := StripWhitespace(" Chicago  Cubs\t"); got != "ChicagoCubs" {
		t.Errorf("StripWhitespace = %q", got)
	}
}

func TestIsValidUsername(t *testing.T) {
	for name, want := range map[string]bool{
		"cubs_fan":              true,
		"ab":                    false,
		"has space":             false,
		strings.Repeat("x", 31): false,
		"emoji_\u26be":          false,
	} {
		if got := IsValidUsername(name); got != want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"?page=3&limit=5", 3, 5},
		{"?page=0&limit=-1", 1, 20},
		{"?page=abc&limit=500", 1, 50},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tt.query, nil)
		page, limit := ParsePagination(c, 20, 50)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tt.query, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}
