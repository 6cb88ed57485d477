package sanitize

import (
	"strings"
	"testing"
)

func TestTextStripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "강남역", want: "강남역"},
		{name: "bold highlight", in: "<b>Gangnam</b> Station", want: "Gangnam Station"},
		{name: "nested", in: "<p><i>서울</i> <b>시청</b></p>", want: "서울 시청"},
		{name: "script dropped", in: "카페<script>alert(1)</script>", want: "카페"},
		{name: "escaped tag", in: "&lt;b&gt;bold&lt;/b&gt;", want: "bold"},
		{name: "entity", in: "Tom &amp; Jerry", want: "Tom & Jerry"},
		{name: "surrounding space", in: "  <b> 역 </b>  ", want: "역"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTextIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"<b>Gangnam</b> Station",
		"&amp;lt;b&amp;gt;double&amp;lt;/b&amp;gt;",
		"a < b and c > d",
		"<<b>>x<</b>>",
		"<a href=\"http://map.naver.com\">link</a> tail",
		"unterminated <b",
		"AT&T",
		nestedEscape("&lt;b&gt;x", 9),
		nestedEscape("&lt;b&gt;deep", 20),
	}

	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Fatalf("Text not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTextRemovesInputTags(t *testing.T) {
	in := "<b>맛집</b><em>추천</em><span class=\"x\">!</span>"
	got := Text(in)
	for _, tag := range []string{"<b>", "</b>", "<em>", "</em>", "<span", "</span>"} {
		if strings.Contains(got, tag) {
			t.Fatalf("Text(%q) = %q still contains %q", in, got, tag)
		}
	}
}

// nestedEscape escapes the ampersands of s depth times.
func nestedEscape(s string, depth int) string {
	for i := 0; i < depth; i++ {
		s = strings.ReplaceAll(s, "&", "&amp;")
	}
	return s
}

func TestTextUnwrapsDeeplyEscapedMarkup(t *testing.T) {
	in := nestedEscape("&lt;b&gt;x", 9)
	if got := Text(in); got != "x" {
		t.Fatalf("Text(%q) = %q, want x", in, got)
	}
}
