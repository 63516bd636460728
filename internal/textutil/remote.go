package textutil

import "strings"

const (
	RemoteFull    = "remote"
	RemoteHybrid  = "hybrid"
	RemoteOnsite  = "onsite"
	RemoteUnknown = "unknown"
)

// Rule order is semantic: full-remote wording is checked before hybrid
// before onsite, and the first hit wins.
var remoteRules = []struct {
	value    string
	keywords []string
}{
	{RemoteFull, []string{
		"100% télétravail",
		"100% teletravail",
		"télétravail complet",
		"télétravail total",
		"full télétravail",
		"full remote",
		"fully remote",
		"100% remote",
		"remote first",
		"remote-first",
		"à distance",
		"distanciel",
	}},
	{RemoteHybrid, []string{
		"hybride",
		"hybrid",
		"télétravail partiel",
		"partial remote",
		"flex office",
	}},
	{RemoteOnsite, []string{
		"sur site",
		"on-site",
		"on site",
		"onsite",
		"présentiel",
		"presentiel",
		"au bureau",
		"pas de télétravail",
		"no remote",
	}},
}

// DetectRemoteType classifies the working arrangement described by the
// text as remote, hybrid, onsite or unknown.
func DetectRemoteType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range remoteRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.value
			}
		}
	}
	return RemoteUnknown
}
