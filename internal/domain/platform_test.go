package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		raw      string
		expected Platform
		wantErr  bool
	}{
		{raw: "meta", expected: PlatformMeta},
		{raw: " Google ", expected: PlatformGoogle},
		{raw: "LINKEDIN", expected: PlatformLinkedIn},
		{raw: "shopify", expected: PlatformShopify},
		{raw: "tiktok", expected: PlatformTikTok},
		{raw: "facebook", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			platform, err := ParsePlatform(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedPlatform)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, platform)
		})
	}
}

func TestNormalizeShopDomain(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		valid    bool
	}{
		{raw: "my-store.myshopify.com", expected: "my-store.myshopify.com", valid: true},
		{raw: "https://My-Store.myshopify.com/", expected: "my-store.myshopify.com", valid: true},
		{raw: "store.example.com", expected: "store.example.com", valid: false},
		{raw: "evil.com/.myshopify.com", valid: false, expected: "evil.com/.myshopify.com"},
		{raw: "-store.myshopify.com", expected: "-store.myshopify.com", valid: false},
		{raw: "", expected: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			shop, valid := NormalizeShopDomain(tt.raw)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.expected, shop)
		})
	}
}
