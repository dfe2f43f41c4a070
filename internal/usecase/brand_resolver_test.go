package usecase

import (
	"testing"

	"github.com/dbklik/recapdash/internal/domain"
)

func TestBrandResolverResolve(t *testing.T) {
	resolver := NewBrandResolver(domain.BrandAliasMap{
		"logi":    "LOGITECH",
		"SAMSUNG ELECTRONICS": "SAMSUNG",
	}, []string{"LOGITECH", "SAMSUNG", "ASUS"})

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"blank brand", "", BrandUnknown},
		{"whitespace brand", "   ", BrandUnknown},
		{"alias maps to canonical", "logi", "LOGITECH"},
		{"alias is case-insensitive", "LoGi", "LOGITECH"},
		{"multi-word alias", "samsung electronics", "SAMSUNG"},
		{"unknown brand passes through uppercased", "acme", "ACME"},
		{"canonical brand unchanged", "ASUS", "ASUS"},
		{"surrounding whitespace trimmed", "  asus  ", "ASUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.raw)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBrandResolverFromName(t *testing.T) {
	resolver := NewBrandResolver(domain.BrandAliasMap{
		"logi": "LOGITECH",
	}, []string{"LOGITECH", "SAMSUNG"})

	tests := []struct {
		name    string
		rawName string
		want    string
	}{
		{"known brand mid-name", "Mouse Logitech G102", "LOGITECH"},
		{"alias token in name", "Mouse Logi G102", "LOGITECH"},
		{"no known brand falls back to first token", "Acme Keyboard RGB", "ACME"},
		{"empty name", "", BrandUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.FromName(tt.rawName)
			if got != tt.want {
				t.Errorf("FromName(%q) = %q, want %q", tt.rawName, got, tt.want)
			}
		})
	}
}
