package utils

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

func ExtractURLs(content string) []string {
	return urlRegex.FindAllString(content, -1)
}

// NormalizeDomain lowercases a URL's host and folds internationalized
// domains to their ASCII form so blocklist lookups are stable.
func NormalizeDomain(raw string) (string, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(parsed.Hostname())
	asciiHost, err := idna.ToASCII(host)
	if err == nil {
		host = asciiHost
	}
	return host, nil
}

func DomainBlocked(domain string, blocklist map[string]struct{}) bool {
	_, ok := blocklist[strings.ToLower(domain)]
	return ok
}
