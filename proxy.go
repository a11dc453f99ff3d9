package captcha

import "fmt"

// ProxyType is the protocol of a solving proxy.
type ProxyType string

const (
	ProxyHTTP   ProxyType = "http"
	ProxyHTTPS  ProxyType = "https"
	ProxySOCKS4 ProxyType = "socks4"
	ProxySOCKS5 ProxyType = "socks5"
)

// ProxyConfig describes the proxy a vendor should solve through. It is a
// plain value; attach it to a task with the task's WithProxy helper.
type ProxyConfig struct {
	Type     ProxyType
	Address  string
	Port     int
	Login    string
	Password string
}

// HTTPProxy creates an http proxy config.
func HTTPProxy(address string, port int) ProxyConfig {
	return ProxyConfig{Type: ProxyHTTP, Address: address, Port: port}
}

// HTTPSProxy creates an https proxy config.
func HTTPSProxy(address string, port int) ProxyConfig {
	return ProxyConfig{Type: ProxyHTTPS, Address: address, Port: port}
}

// SOCKS4Proxy creates a socks4 proxy config.
func SOCKS4Proxy(address string, port int) ProxyConfig {
	return ProxyConfig{Type: ProxySOCKS4, Address: address, Port: port}
}

// SOCKS5Proxy creates a socks5 proxy config.
func SOCKS5Proxy(address string, port int) ProxyConfig {
	return ProxyConfig{Type: ProxySOCKS5, Address: address, Port: port}
}

// WithAuth returns a copy carrying proxy credentials.
func (p ProxyConfig) WithAuth(login, password string) ProxyConfig {
	p.Login, p.Password = login, password
	return p
}

// String renders type://address:port. Credentials are never included.
func (p ProxyConfig) String() string {
	return fmt.Sprintf("%s://%s:%d", p.Type, p.Address, p.Port)
}
