package capsolver

import (
	captcha "github.com/anatolykoptev/go-captcha"
)

// taskPayload maps a captcha task onto Capsolver's wire format.
func taskPayload(task captcha.Task) (map[string]any, error) {
	switch t := task.(type) {
	case captcha.ReCaptchaV2:
		return recaptchaV2Payload(t), nil
	case captcha.ReCaptchaV3:
		return recaptchaV3Payload(t), nil
	case captcha.Turnstile:
		return turnstilePayload(t), nil
	case captcha.CloudflareChallenge:
		return cloudflarePayload(t), nil
	case captcha.ImageToText:
		return imageToTextPayload(t), nil
	default:
		return nil, &captcha.UnsupportedTaskError{Provider: "capsolver", Task: task.TaskType()}
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
	if t.PageAction != "" {
		p["pageAction"] = t.PageAction
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
	case t.Enterprise:
		if len(t.EnterprisePayload) > 0 {
			p["enterprisePayload"] = t.EnterprisePayload
		}
		p["type"] = taskType("ReCaptchaV2EnterpriseTask", t.Proxy)
	default:
		p["type"] = taskType("ReCaptchaV2Task", t.Proxy)
	}
	addProxy(p, t.Proxy)
	return p
}

func recaptchaV3Payload(t captcha.ReCaptchaV3) map[string]any {
	p := map[string]any{
		"websiteURL": t.WebsiteURL,
		"websiteKey": t.WebsiteKey,
		"pageAction": t.PageAction,
	}
	if t.MinScore > 0 {
		p["minScore"] = t.MinScore
	}
	if t.APIDomain != "" {
		p["apiDomain"] = t.APIDomain
	}
	if t.Enterprise {
		if len(t.EnterprisePayload) > 0 {
			p["enterprisePayload"] = t.EnterprisePayload
		}
		p["type"] = taskType("ReCaptchaV3EnterpriseTask", t.Proxy)
	} else {
		p["type"] = taskType("ReCaptchaV3Task", t.Proxy)
	}
	addProxy(p, t.Proxy)
	return p
}

func turnstilePayload(t captcha.Turnstile) map[string]any {
	p := map[string]any{
		"type":       "AntiTurnstileTaskProxyLess",
		"websiteURL": t.WebsiteURL,
		"websiteKey": t.WebsiteKey,
	}
	meta := map[string]any{}
	if t.Action != "" {
		meta["action"] = t.Action
	}
	if t.CData != "" {
		meta["cdata"] = t.CData
	}
	if len(meta) > 0 {
		p["metadata"] = meta
	}
	return p
}

func cloudflarePayload(t captcha.CloudflareChallenge) map[string]any {
	p := map[string]any{
		"type":       "AntiCloudflareTask",
		"websiteURL": t.WebsiteURL,
	}
	if t.UserAgent != "" {
		p["userAgent"] = t.UserAgent
	}
	if t.HTML != "" {
		p["html"] = t.HTML
	}
	addProxy(p, &t.Proxy)
	return p
}

func imageToTextPayload(t captcha.ImageToText) map[string]any {
	p := map[string]any{
		"type": "ImageToTextTask",
		"body": t.Body,
	}
	if t.WebsiteURL != "" {
		p["websiteURL"] = t.WebsiteURL
	}
	if t.Module != "" {
		p["module"] = t.Module
	}
	if t.CaseSensitive {
		p["case"] = true
	}
	return p
}

// taskType appends the ProxyLess suffix when no proxy is configured.
func taskType(base string, proxy *captcha.ProxyConfig) string {
	if proxy == nil {
		return base + "ProxyLess"
	}
	return base
}

func addProxy(p map[string]any, proxy *captcha.ProxyConfig) {
	if proxy == nil {
		return
	}
	p["proxyType"] = string(proxy.Type)
	p["proxyAddress"] = proxy.Address
	p["proxyPort"] = proxy.Port
	if proxy.Login != "" {
		p["proxyLogin"] = proxy.Login
		p["proxyPassword"] = proxy.Password
	}
}
