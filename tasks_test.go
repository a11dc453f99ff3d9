package captcha

import (
	"encoding/base64"
	"testing"
)

func TestReCaptchaV2TaskType(t *testing.T) {
	tests := []struct {
		name string
		task ReCaptchaV2
		want string
	}{
		{"checkbox", NewReCaptchaV2("https://x.test", "k"), "ReCaptchaV2"},
		{"invisible", NewReCaptchaV2("https://x.test", "k").AsInvisible(), "ReCaptchaV2Invisible"},
		{"enterprise", NewReCaptchaV2("https://x.test", "k").AsEnterprise(), "ReCaptchaV2Enterprise"},
		{
			"invisible enterprise",
			NewReCaptchaV2("https://x.test", "k").AsInvisible().AsEnterprise(),
			"ReCaptchaV2InvisibleEnterprise",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.TaskType(); got != tt.want {
				t.Errorf("TaskType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskBuildersReturnCopies(t *testing.T) {
	base := NewReCaptchaV2("https://x.test", "k")
	invisible := base.AsInvisible()
	if base.Invisible {
		t.Error("AsInvisible mutated the receiver")
	}
	if !invisible.Invisible {
		t.Error("AsInvisible had no effect on the copy")
	}

	v3 := NewReCaptchaV3("https://x.test", "k")
	if v3.MinScore != 0.3 {
		t.Errorf("default MinScore = %v, want 0.3", v3.MinScore)
	}
	if got := v3.WithMinScore(0.9).MinScore; got != 0.9 {
		t.Errorf("WithMinScore = %v, want 0.9", got)
	}
	if got := v3.AsEnterprise().TaskType(); got != "ReCaptchaV3Enterprise" {
		t.Errorf("TaskType() = %q", got)
	}
}

func TestNewImageToTextEncodes(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	task := NewImageToText(raw)
	if task.Body != base64.StdEncoding.EncodeToString(raw) {
		t.Errorf("Body = %q", task.Body)
	}

	pre := NewImageToTextBase64("aGVsbG8=")
	if pre.Body != "aGVsbG8=" {
		t.Errorf("Body = %q", pre.Body)
	}

	bounded := task.WithLength(3, 6).AsCaseSensitive().WithNumeric(NumericDigitsOnly)
	if bounded.MinLength != 3 || bounded.MaxLength != 6 || !bounded.CaseSensitive || bounded.Numeric != NumericDigitsOnly {
		t.Errorf("builder chain produced %+v", bounded)
	}
}

func TestCloudflareChallengeCarriesProxy(t *testing.T) {
	proxy := HTTPProxy("10.0.0.1", 8080).WithAuth("user", "pass")
	task := NewCloudflareChallenge("https://x.test", proxy).WithUserAgent("UA/1.0")
	if task.Proxy != proxy {
		t.Errorf("Proxy = %+v, want %+v", task.Proxy, proxy)
	}
	if task.TaskType() != "CloudflareChallenge" {
		t.Errorf("TaskType() = %q", task.TaskType())
	}
	if task.UserAgent != "UA/1.0" {
		t.Errorf("UserAgent = %q", task.UserAgent)
	}
}

func TestProxyConfig(t *testing.T) {
	tests := []struct {
		name  string
		proxy ProxyConfig
		want  string
	}{
		{"http", HTTPProxy("1.2.3.4", 8080), "http://1.2.3.4:8080"},
		{"https", HTTPSProxy("1.2.3.4", 443), "https://1.2.3.4:443"},
		{"socks4", SOCKS4Proxy("1.2.3.4", 1080), "socks4://1.2.3.4:1080"},
		{"socks5", SOCKS5Proxy("proxy.test", 1080), "socks5://proxy.test:1080"},
		{
			"credentials stay out of String",
			SOCKS5Proxy("proxy.test", 1080).WithAuth("user", "secret"),
			"socks5://proxy.test:1080",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.proxy.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSolutionAccessors(t *testing.T) {
	tests := []struct {
		name     string
		solution Solution
		want     string
	}{
		{"recaptcha wins", Solution{GRecaptchaResponse: "g", Token: "t", Text: "x"}, "g"},
		{"token next", Solution{Token: "t", Text: "x"}, "t"},
		{"text last", Solution{Text: "x"}, "x"},
		{"empty", Solution{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.solution.ResponseToken(); got != tt.want {
				t.Errorf("ResponseToken() = %q, want %q", got, tt.want)
			}
		})
	}

	s := Solution{Cookies: map[string]string{"cf_clearance": "abc123"}}
	if got := s.CFClearance(); got != "abc123" {
		t.Errorf("CFClearance() = %q", got)
	}
	if got := (&Solution{}).CFClearance(); got != "" {
		t.Errorf("CFClearance() on empty = %q", got)
	}
}
