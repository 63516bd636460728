package urlutil

import (
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var jobSegments = []string{
	"jobs",
	"job",
	"careers",
	"emploi",
	"emplois",
	"offres",
	"offre",
	"positions",
	"vacancies",
}

var staticExtensions = map[string]struct{}{
	".css":   {},
	".gif":   {},
	".ico":   {},
	".jpeg":  {},
	".jpg":   {},
	".js":    {},
	".mp3":   {},
	".mp4":   {},
	".pdf":   {},
	".png":   {},
	".svg":   {},
	".ttf":   {},
	".woff":  {},
	".woff2": {},
	".zip":   {},
}

// Normalize canonicalizes a URL for deduplication: https by default,
// no fragment, no tracking params, sorted query, lowercased host
// without www, cleaned path with locale prefixes stripped ahead of job
// segments. Returns the normalized URL and its host.
func Normalize(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	u.Fragment = ""
	u.Host = normalizeHost(u.Host)
	u.Path = normalizePath(u.Path)
	u.Path = stripLocalePrefix(u.Path)
	u.RawQuery = normalizeQuery(u.RawQuery)
	return u.String(), u.Hostname(), nil
}

// Host returns the lowercased hostname of a raw URL, www stripped.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return normalizeHost(u.Hostname())
}

// RegistrableDomain reduces a host to its public-suffix-plus-one form,
// e.g. fr.indeed.com -> indeed.com, example.co.uk -> example.co.uk.
func RegistrableDomain(host string) string {
	h := normalizeHost(host)
	if h == "" {
		return ""
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(h)
	if err != nil {
		return h
	}
	return etld1
}

// MatchesSite reports whether host belongs to a site identified by its
// canonical domain. Country variants count: indeed.fr and uk.indeed.com
// both match indeed.com, because the comparison falls back to the
// registrable domain's first label.
func MatchesSite(host, site string) bool {
	hostDomain := RegistrableDomain(host)
	siteDomain := RegistrableDomain(site)
	if hostDomain == "" || siteDomain == "" {
		return false
	}
	if hostDomain == siteDomain {
		return true
	}
	return domainLabel(hostDomain) == domainLabel(siteDomain)
}

// IsFetchable filters out URLs the capture flow should never request:
// non-HTTP schemes, hostless URLs, and static assets.
func IsFetchable(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Hostname() == "" {
		return false
	}
	return !isStaticAssetPath(u.Path)
}

func domainLabel(domain string) string {
	if i := strings.IndexByte(domain, '.'); i > 0 {
		return domain[:i]
	}
	return domain
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := path.Clean(p)
	if clean == "." {
		return "/"
	}
	if clean != "/" && strings.HasSuffix(clean, "/") {
		clean = strings.TrimSuffix(clean, "/")
	}
	return clean
}

func stripLocalePrefix(p string) string {
	segs := splitPath(p)
	if len(segs) < 2 {
		return p
	}
	if !isLocale(segs[0]) {
		return p
	}
	if isJobSegment(segs[1]) {
		return "/" + strings.Join(segs[1:], "/")
	}
	return p
}

func normalizeQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	for key := range values {
		lk := strings.ToLower(key)
		if strings.HasPrefix(lk, "utm_") || lk == "gclid" || lk == "fbclid" || lk == "ref" || lk == "source" {
			delete(values, key)
		}
	}
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	normalized := url.Values{}
	for _, k := range keys {
		normalized[k] = values[k]
	}
	return normalized.Encode()
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return parts
}

func isStaticAssetPath(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	_, ok := staticExtensions[ext]
	return ok
}

func isLocale(seg string) bool {
	if len(seg) == 2 {
		return isAlpha(seg)
	}
	if len(seg) == 5 && seg[2] == '-' {
		return isAlpha(seg[:2]) && isAlpha(seg[3:])
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func isJobSegment(seg string) bool {
	for _, root := range jobSegments {
		if seg == root {
			return true
		}
	}
	return false
}
