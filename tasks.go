package captcha

import "encoding/base64"

// ReCaptchaV2 describes a Google reCAPTCHA V2 challenge, checkbox or
// invisible, standard or Enterprise. Fields are public; the With* helpers
// exist for fluent construction and return copies.
type ReCaptchaV2 struct {
	// WebsiteURL is the full URL of the page showing the captcha.
	WebsiteURL string
	// WebsiteKey is the site key (the data-sitekey attribute).
	WebsiteKey string
	// Invisible marks an invisible reCAPTCHA.
	Invisible bool
	// Enterprise marks reCAPTCHA Enterprise.
	Enterprise bool
	// PageAction is the action parameter some sites verify.
	PageAction string
	// DataSValue is the data-s value used on some Google properties.
	DataSValue string
	// EnterprisePayload holds extra key/values for Enterprise sites.
	EnterprisePayload map[string]any
	// APIDomain overrides the script domain (e.g. "recaptcha.net").
	APIDomain string
	// UserAgent to solve with, for vendors that accept one.
	UserAgent string
	// Proxy routes solving through a custom proxy when set.
	Proxy *ProxyConfig
}

// NewReCaptchaV2 creates a proxyless ReCaptcha V2 task.
func NewReCaptchaV2(websiteURL, websiteKey string) ReCaptchaV2 {
	return ReCaptchaV2{WebsiteURL: websiteURL, WebsiteKey: websiteKey}
}

// AsInvisible marks the captcha as invisible.
func (t ReCaptchaV2) AsInvisible() ReCaptchaV2 { t.Invisible = true; return t }

// AsEnterprise marks the captcha as Enterprise.
func (t ReCaptchaV2) AsEnterprise() ReCaptchaV2 { t.Enterprise = true; return t }

// WithAction sets the page action.
func (t ReCaptchaV2) WithAction(action string) ReCaptchaV2 { t.PageAction = action; return t }

// WithDataS sets the data-s value.
func (t ReCaptchaV2) WithDataS(value string) ReCaptchaV2 { t.DataSValue = value; return t }

// WithProxy routes solving through the given proxy.
func (t ReCaptchaV2) WithProxy(p ProxyConfig) ReCaptchaV2 { t.Proxy = &p; return t }

// TaskType implements Task.
func (t ReCaptchaV2) TaskType() string {
	switch {
	case t.Invisible && t.Enterprise:
		return "ReCaptchaV2InvisibleEnterprise"
	case t.Invisible:
		return "ReCaptchaV2Invisible"
	case t.Enterprise:
		return "ReCaptchaV2Enterprise"
	default:
		return "ReCaptchaV2"
	}
}

// ReCaptchaV3 describes a score-based Google reCAPTCHA V3 challenge.
type ReCaptchaV3 struct {
	WebsiteURL string
	WebsiteKey string
	// PageAction is the action the token must be issued for.
	PageAction string
	// MinScore is the minimum score to aim for (0.3, 0.7 or 0.9).
	MinScore float64
	// Enterprise marks reCAPTCHA V3 Enterprise.
	Enterprise bool
	// EnterprisePayload holds extra key/values for Enterprise sites.
	EnterprisePayload map[string]any
	// APIDomain overrides the script domain.
	APIDomain string
	// Proxy routes solving through a custom proxy when set.
	Proxy *ProxyConfig
}

// NewReCaptchaV3 creates a ReCaptcha V3 task with the default 0.3 score
// target.
func NewReCaptchaV3(websiteURL, websiteKey string) ReCaptchaV3 {
	return ReCaptchaV3{WebsiteURL: websiteURL, WebsiteKey: websiteKey, MinScore: 0.3}
}

// WithAction sets the page action.
func (t ReCaptchaV3) WithAction(action string) ReCaptchaV3 { t.PageAction = action; return t }

// WithMinScore sets the minimum score target.
func (t ReCaptchaV3) WithMinScore(score float64) ReCaptchaV3 { t.MinScore = score; return t }

// AsEnterprise marks the captcha as Enterprise.
func (t ReCaptchaV3) AsEnterprise() ReCaptchaV3 { t.Enterprise = true; return t }

// WithProxy routes solving through the given proxy.
func (t ReCaptchaV3) WithProxy(p ProxyConfig) ReCaptchaV3 { t.Proxy = &p; return t }

// TaskType implements Task.
func (t ReCaptchaV3) TaskType() string {
	if t.Enterprise {
		return "ReCaptchaV3Enterprise"
	}
	return "ReCaptchaV3"
}

// Turnstile describes a Cloudflare Turnstile widget challenge.
type Turnstile struct {
	WebsiteURL string
	WebsiteKey string
	// Action is the data-action attribute value.
	Action string
	// CData is the data-cdata attribute value.
	CData string
}

// NewTurnstile creates a Turnstile task.
func NewTurnstile(websiteURL, websiteKey string) Turnstile {
	return Turnstile{WebsiteURL: websiteURL, WebsiteKey: websiteKey}
}

// WithAction sets the data-action value.
func (t Turnstile) WithAction(action string) Turnstile { t.Action = action; return t }

// WithCData sets the data-cdata value.
func (t Turnstile) WithCData(cdata string) Turnstile { t.CData = cdata; return t }

// TaskType implements Task.
func (t Turnstile) TaskType() string { return "Turnstile" }

// CloudflareChallenge describes a full-page Cloudflare challenge bypass
// ("Just a moment..."). It requires a static or sticky proxy — the clearance
// cookie is bound to the solving IP, so a rotating proxy produces unusable
// solutions.
type CloudflareChallenge struct {
	WebsiteURL string
	// Proxy is the static proxy the challenge is solved through. Required.
	Proxy ProxyConfig
	// UserAgent must match the one used in subsequent requests, when set.
	UserAgent string
	// HTML is the challenge page body, when already fetched.
	HTML string
}

// NewCloudflareChallenge creates a challenge-bypass task solved through the
// given static proxy.
func NewCloudflareChallenge(websiteURL string, proxy ProxyConfig) CloudflareChallenge {
	return CloudflareChallenge{WebsiteURL: websiteURL, Proxy: proxy}
}

// WithUserAgent sets the user agent to solve with.
func (t CloudflareChallenge) WithUserAgent(ua string) CloudflareChallenge {
	t.UserAgent = ua
	return t
}

// WithHTML attaches the already-fetched challenge page body.
func (t CloudflareChallenge) WithHTML(html string) CloudflareChallenge { t.HTML = html; return t }

// TaskType implements Task.
func (t CloudflareChallenge) TaskType() string { return "CloudflareChallenge" }

// Numeric constraints for ImageToText answers.
const (
	NumericAny              = 0 // no requirement
	NumericDigitsOnly       = 1
	NumericLettersOnly      = 2
	NumericDigitsOrLetters  = 3
	NumericDigitsAndLetters = 4
)

// ImageToText describes a classic image captcha to be transcribed.
type ImageToText struct {
	// Body is the base64-encoded image, without a data URI prefix.
	Body string
	// WebsiteURL optionally names the source page to improve accuracy.
	WebsiteURL string
	// Module selects a vendor recognition module ("common", "number", ...).
	Module string
	// Phrase requires an answer of multiple space-separated words.
	Phrase bool
	// CaseSensitive requires the answer to preserve case.
	CaseSensitive bool
	// Numeric constrains the answer alphabet; see the Numeric* constants.
	Numeric int
	// Math requires evaluating the pictured calculation.
	Math bool
	// MinLength and MaxLength bound the answer length; zero means no bound.
	MinLength int
	MaxLength int
	// Comment carries extra instructions for human workers.
	Comment string
	// ImgInstructions is a base64-encoded instruction image for workers.
	ImgInstructions string
}

// NewImageToText creates a task from raw image bytes, encoding them to
// base64.
func NewImageToText(image []byte) ImageToText {
	return ImageToText{Body: base64.StdEncoding.EncodeToString(image)}
}

// NewImageToTextBase64 creates a task from an already-encoded image.
func NewImageToTextBase64(body string) ImageToText {
	return ImageToText{Body: body}
}

// AsCaseSensitive requires a case-preserving answer.
func (t ImageToText) AsCaseSensitive() ImageToText { t.CaseSensitive = true; return t }

// AsPhrase requires a multi-word answer.
func (t ImageToText) AsPhrase() ImageToText { t.Phrase = true; return t }

// WithNumeric constrains the answer alphabet.
func (t ImageToText) WithNumeric(n int) ImageToText { t.Numeric = n; return t }

// WithModule selects a vendor recognition module.
func (t ImageToText) WithModule(module string) ImageToText { t.Module = module; return t }

// WithLength bounds the answer length.
func (t ImageToText) WithLength(minLen, maxLen int) ImageToText {
	t.MinLength, t.MaxLength = minLen, maxLen
	return t
}

// TaskType implements Task.
func (t ImageToText) TaskType() string { return "ImageToText" }
