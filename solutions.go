package captcha

// Solution is the vendor-reported payload for a completed task. Both
// supported vendors use the same camelCase field names, so one shape covers
// them; which fields are filled depends on the captcha type. reCAPTCHA fills
// GRecaptchaResponse, Turnstile and Cloudflare Challenge fill Token (plus
// Cookies for the clearance cookie), image captchas fill Text.
type Solution struct {
	GRecaptchaResponse string            `json:"gRecaptchaResponse,omitempty"`
	Token              string            `json:"token,omitempty"`
	Text               string            `json:"text,omitempty"`
	Cookies            map[string]string `json:"cookies,omitempty"`
	UserAgent          string            `json:"userAgent,omitempty"`
	CreateTime         int64             `json:"createTime,omitempty"`
}

// ResponseToken returns the value to submit back to the protected site:
// gRecaptchaResponse when present, otherwise the token, otherwise the
// transcribed text.
func (s *Solution) ResponseToken() string {
	if s.GRecaptchaResponse != "" {
		return s.GRecaptchaResponse
	}
	if s.Token != "" {
		return s.Token
	}
	return s.Text
}

// CFClearance returns the cf_clearance cookie from a Cloudflare Challenge
// solution, or "" when absent. The cookie must accompany subsequent requests
// from the same IP and user agent.
func (s *Solution) CFClearance() string {
	return s.Cookies["cf_clearance"]
}
