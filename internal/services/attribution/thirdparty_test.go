package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v3"
)

func TestIsSubdomainOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sub, sup string
		want     bool
	}{
		{"a.b.com", "b.com", true},
		{"x.y.b.com", "b.com", true},
		{"evilb.com", "b.com", false},
		{"b.com", "b.com", true},
		{"x.com", "b.com", false},
		{"com", "b.com", false},
		{"", "", true},
		{"a.b.com", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSubdomainOf(tt.sub, tt.sup), "IsSubdomainOf(%q, %q)", tt.sub, tt.sup)
	}
}

func TestIsThirdParty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		top       null.String
		cookieURL null.String
		want      bool
	}{
		{"unknown_top_frame", null.String{}, null.StringFrom("https://x.com"), true},
		{"unknown_top_frame_no_url", null.String{}, null.String{}, true},
		{"ip_or_localhost_top_frame", null.StringFrom(""), null.StringFrom("https://192.168.1.1"), false},
		{"missing_cookie_url", null.StringFrom("b.com"), null.String{}, false},
		{"unparseable_cookie_url", null.StringFrom("b.com"), null.StringFrom("http://[::1"), false},
		{"hostless_cookie_url", null.StringFrom("b.com"), null.StringFrom("not a url"), false},
		{"same_domain", null.StringFrom("b.com"), null.StringFrom("https://b.com/path"), false},
		{"subdomain_with_port", null.StringFrom("b.com"), null.StringFrom("https://cdn.b.com:8443/x"), false},
		{"suffix_lookalike", null.StringFrom("b.com"), null.StringFrom("https://evilb.com"), true},
		{"other_site", null.StringFrom("b.com"), null.StringFrom("wss://tracker.example"), true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsThirdParty(tt.top, tt.cookieURL))
		})
	}
}
