package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Platform string

const (
	PlatformMeta     Platform = "meta"
	PlatformGoogle   Platform = "google"
	PlatformLinkedIn Platform = "linkedin"
	PlatformShopify  Platform = "shopify"
	PlatformTikTok   Platform = "tiktok"
)

var SupportedPlatforms = []Platform{
	PlatformMeta,
	PlatformGoogle,
	PlatformLinkedIn,
	PlatformShopify,
	PlatformTikTok,
}

var ErrUnsupportedPlatform = errors.New("platform not supported")

func (p Platform) String() string {
	return string(p)
}

func (p Platform) IsValid() bool {
	for _, supported := range SupportedPlatforms {
		if p == supported {
			return true
		}
	}
	return false
}

// ParsePlatform normalizes a platform key coming from a URL or request body.
func ParsePlatform(raw string) (Platform, error) {
	platform := Platform(strings.ToLower(strings.TrimSpace(raw)))
	if !platform.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, raw)
	}
	return platform, nil
}

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain lowercases a shop and accepts only *.myshopify.com hosts.
func NormalizeShopDomain(shop string) (string, bool) {
	shop = strings.ToLower(strings.TrimSpace(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimSuffix(shop, "/")
	return shop, shopDomainPattern.MatchString(shop)
}
