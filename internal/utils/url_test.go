package utils

import "testing"

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs("check https://example.com/a and http://foo.bar")
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
}

func TestNormalizeDomain(t *testing.T) {
	domain, err := NormalizeDomain("https://EXAMPLE.com/path?x=1")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if domain != "example.com" {
		t.Fatalf("expected example.com, got %q", domain)
	}

	domain, err = NormalizeDomain("bücher.de")
	if err != nil {
		t.Fatalf("normalize idn: %v", err)
	}
	if domain != "xn--bcher-kva.de" {
		t.Fatalf("expected punycode host, got %q", domain)
	}
}

func TestDomainBlocked(t *testing.T) {
	blocklist := map[string]struct{}{"bad.example": {}}
	if !DomainBlocked("BAD.example", blocklist) {
		t.Fatalf("expected blocked")
	}
	if DomainBlocked("good.example", blocklist) {
		t.Fatalf("expected not blocked")
	}
}
