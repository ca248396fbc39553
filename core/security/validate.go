// ABOUTME: URL and host validation guarding against SSRF
// ABOUTME: Enforces scheme/port/hostname policy and rejects non-public resolved IPs

package security

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"recipe-importer-api/core/errors"
	"recipe-importer-api/pkg/config"
)

// Resolver resolves hostnames to IP addresses. It matches the relevant
// method of net.Resolver so the default resolver can be used directly and
// tests can substitute a fake.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Validator applies the configured URL/host policy. DNS resolution goes
// through the injected Resolver; every resolved address must be public
// unicast, since DNS can return a mix of public and private records.
type Validator struct {
	policy   config.SecurityConfig
	limit    int
	resolver Resolver

	blockedHosts map[string]struct{}
	schemes      map[string]struct{}
	ports        map[int]struct{}
}

// NewValidator creates a validator from the security policy and redirect limit.
// A nil resolver defaults to net.DefaultResolver.
func NewValidator(policy config.SecurityConfig, redirectLimit int, resolver Resolver) *Validator {
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	v := &Validator{
		policy:       policy,
		limit:        redirectLimit,
		resolver:     resolver,
		blockedHosts: make(map[string]struct{}, len(policy.BlockedHostnames)),
		schemes:      make(map[string]struct{}, len(policy.AllowedSchemes)),
		ports:        make(map[int]struct{}, len(policy.AllowedPorts)),
	}

	for _, host := range policy.BlockedHostnames {
		v.blockedHosts[strings.ToLower(host)] = struct{}{}
	}
	for _, scheme := range policy.AllowedSchemes {
		v.schemes[strings.ToLower(scheme)] = struct{}{}
	}
	for _, port := range policy.AllowedPorts {
		v.ports[port] = struct{}{}
	}

	return v
}

// NormalizeURL strips the fragment from a URL, producing the canonical form
// used as a cache key.
func NormalizeURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.InvalidURL(fmt.Sprintf("Malformed URL: %v", err))
	}
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String(), nil
}

// ValidateTarget checks a URL against the full policy and returns the
// fragment-stripped URL on success.
func (v *Validator) ValidateTarget(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.InvalidURL(fmt.Sprintf("Malformed URL: %v", err))
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.InvalidURL("URL must include scheme and host")
	}

	if err := v.validateScheme(parsed); err != nil {
		return "", err
	}
	if err := v.validatePort(parsed); err != nil {
		return "", err
	}
	hostname := parsed.Hostname()
	if err := v.validateHostname(hostname); err != nil {
		return "", err
	}
	if err := v.validateResolvedIPs(ctx, hostname); err != nil {
		return "", err
	}

	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String(), nil
}

// ValidateRedirect checks the hop count against the redirect limit, then
// applies the identical target validation to the redirect destination.
func (v *Validator) ValidateRedirect(ctx context.Context, targetURL string, redirectCount int) (string, error) {
	if redirectCount >= v.limit {
		return "", errors.InvalidURL(fmt.Sprintf("Redirect limit exceeded (%d)", v.limit))
	}
	return v.ValidateTarget(ctx, targetURL)
}

func (v *Validator) validateScheme(parsed *url.URL) error {
	if _, ok := v.schemes[strings.ToLower(parsed.Scheme)]; !ok {
		return errors.InvalidURL("Only http/https URLs are allowed")
	}
	return nil
}

func (v *Validator) validatePort(parsed *url.URL) error {
	portText := parsed.Port()
	if portText == "" {
		return nil
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return errors.InvalidURL(fmt.Sprintf("Invalid port %q", portText))
	}
	if _, ok := v.ports[port]; !ok {
		return errors.InvalidURL(fmt.Sprintf("Port %d is not allowed", port))
	}
	return nil
}

func (v *Validator) validateHostname(hostname string) error {
	lower := strings.ToLower(hostname)
	if _, ok := v.blockedHosts[lower]; ok {
		return errors.BlockedHost(fmt.Sprintf("Hostname %s is blocked", hostname))
	}
	if v.policy.BlockInternalSuffixes {
		for _, suffix := range v.policy.BlockedSuffixes {
			if strings.HasSuffix(lower, suffix) {
				return errors.BlockedHost(fmt.Sprintf("Hostname %s is blocked by suffix policy", hostname))
			}
		}
	}
	return nil
}

func (v *Validator) validateResolvedIPs(ctx context.Context, hostname string) error {
	addrs, err := v.resolver.LookupIPAddr(ctx, hostname)
	if err != nil || len(addrs) == 0 {
		return errors.BlockedHost(fmt.Sprintf("Failed to resolve hostname %s", hostname))
	}
	for _, addr := range addrs {
		if isBlockedIP(addr.IP) {
			return errors.BlockedHost(fmt.Sprintf("Resolved IP %s is not allowed", addr.IP))
		}
	}
	return nil
}

// reservedV4 covers IPv4 ranges that net.IP has no predicate for:
// "this network" (0.0.0.0/8) and the reserved class E block (240.0.0.0/4).
var reservedV4 = []*net.IPNet{
	{IP: net.IPv4(0, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
	{IP: net.IPv4(240, 0, 0, 0), Mask: net.CIDRMask(4, 32)},
}

// isBlockedIP reports whether an address is private, loopback, link-local,
// reserved, multicast, or otherwise not a public unicast address.
func isBlockedIP(ip net.IP) bool {
	if ip == nil {
		return true
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return true
	}
	if v4 := ip.To4(); v4 != nil {
		for _, block := range reservedV4 {
			if block.Contains(v4) {
				return true
			}
		}
	}
	return false
}
