package rucaptcha

import (
	captcha "github.com/anatolykoptev/go-captcha"
)

// taskPayload maps a captcha task onto RuCaptcha's wire format.
func taskPayload(task captcha.Task) (map[string]any, error) {
	switch t := task.(type) {
	case captcha.ReCaptchaV2:
		return recaptchaV2Payload(t), nil
	case captcha.ReCaptchaV3:
		return recaptchaV3Payload(t), nil
	case captcha.Turnstile:
		return turnstilePayload(t), nil
	case captcha.ImageToText:
		return imageToTextPayload(t), nil
	default:
		// RuCaptcha has no Cloudflare challenge endpoint.
		return nil, &captcha.UnsupportedTaskError{Provider: "rucaptcha", Task: task.TaskType()}
	}
}

func recaptchaV2Payload(t captcha.ReCaptchaV2) map[string]any {
	p := map[string]any{
		"websiteURL": t.WebsiteURL,
		"websiteKey": t.WebsiteKey,
	}
	if t.Invisible {
		p["isInvisible"] = true
	}
	if t.DataSValue != "" {
		p["recaptchaDataSValue"] = t.DataSValue
	}
	if t.APIDomain != "" {
		p["apiDomain"] = t.APIDomain
	}
	if t.UserAgent != "" {
		p["userAgent"] = t.UserAgent
	}

	switch {
	case t.Enterprise && t.Proxy != nil:
		p["type"] = "RecaptchaV2EnterpriseTask"
	case t.Enterprise:
		p["type"] = "RecaptchaV2EnterpriseTaskProxyless"
	case t.Proxy != nil:
		p["type"] = "RecaptchaV2Task"
	default:
		p["type"] = "RecaptchaV2TaskProxyless"
	}
	if t.Enterprise && len(t.EnterprisePayload) > 0 {
		p["enterprisePayload"] = t.EnterprisePayload
	}
	addProxy(p, t.Proxy)
	return p
}

func recaptchaV3Payload(t captcha.ReCaptchaV3) map[string]any {
	// RuCaptcha solves v3 without proxies only.
	p := map[string]any{
		"type":       "RecaptchaV3TaskProxyless",
		"websiteURL": t.WebsiteURL,
		"websiteKey": t.WebsiteKey,
		"pageAction": t.PageAction,
	}
	if t.MinScore > 0 {
		p["minScore"] = t.MinScore
	}
	if t.Enterprise {
		p["isEnterprise"] = true
	}
	return p
}

func turnstilePayload(t captcha.Turnstile) map[string]any {
	p := map[string]any{
		"type":       "TurnstileTaskProxyless",
		"websiteURL": t.WebsiteURL,
		"websiteKey": t.WebsiteKey,
	}
	if t.Action != "" {
		p["action"] = t.Action
	}
	if t.CData != "" {
		p["data"] = t.CData
	}
	return p
}

func imageToTextPayload(t captcha.ImageToText) map[string]any {
	p := map[string]any{
		"type": "ImageToTextTask",
		"body": t.Body,
	}
	if t.Phrase {
		p["phrase"] = true
	}
	if t.CaseSensitive {
		p["case"] = true
	}
	if t.Numeric != captcha.NumericAny {
		p["numeric"] = int(t.Numeric)
	}
	if t.Math {
		p["math"] = true
	}
	if t.MinLength > 0 {
		p["minLength"] = t.MinLength
	}
	if t.MaxLength > 0 {
		p["maxLength"] = t.MaxLength
	}
	if t.Comment != "" {
		p["comment"] = t.Comment
	}
	if t.ImgInstructions != "" {
		p["imgInstructions"] = t.ImgInstructions
	}
	return p
}

// addProxy emits the proxy fields. RuCaptcha does not accept "https" as a
// proxy type, so it collapses to "http".
func addProxy(p map[string]any, proxy *captcha.ProxyConfig) {
	if proxy == nil {
		return
	}
	proxyType := proxy.Type
	if proxyType == captcha.ProxyHTTPS {
		proxyType = captcha.ProxyHTTP
	}
	p["proxyType"] = string(proxyType)
	p["proxyAddress"] = proxy.Address
	p["proxyPort"] = proxy.Port
	if proxy.Login != "" {
		p["proxyLogin"] = proxy.Login
		p["proxyPassword"] = proxy.Password
	}
}
