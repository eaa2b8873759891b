package audit

import (
	"strings"

	"github.com/mssola/useragent"
)

// DescribeUserAgent reduces a raw User-Agent header to "browser version (os)"
// for audit records. Bots are prefixed with "bot:". Empty input yields "".
func DescribeUserAgent(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	desc := strings.TrimSpace(name + " " + version)
	if desc == "" {
		desc = raw
	}
	if os := ua.OS(); os != "" {
		desc += " (" + os + ")"
	}
	if ua.Bot() {
		desc = "bot:" + desc
	}
	return desc
}
