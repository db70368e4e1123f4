package importer

import (
	"regexp"
	"strings"
)

// Social profile cells arrive as anything from a bare handle to a full URL
// with tracking junk. Each extractor pulls the canonical handle out, or
// returns nil when the value does not look like a profile reference at all.
var (
	blueskyRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?bsky\.app/profile/([a-zA-Z0-9._-]+)`)
	facebookRe  = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.|m\.)?facebook\.com/([^?\s]+(?:\?[^?\s]*)?)`)
	instagramRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?instagram\.com/([a-zA-Z0-9_.]+)`)
	linkedinRe  = regexp.MustCompile(`(?i)(?:https?://)?(?:\w+\.)?linkedin\.com/([a-zA-Z0-9_/-]+)`)
	xRe         = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:x\.com|twitter\.com)/([a-zA-Z0-9_]+)`)
)

// facebookReservedPaths are site sections, not profiles. A match whose first
// path segment is one of these is discarded.
var facebookReservedPaths = map[string]bool{
	"help": true, "support": true, "business": true, "developers": true,
	"careers": true, "about": true, "privacy": true, "terms": true,
	"policies": true, "community": true, "legal": true, "ads": true,
	"marketplace": true, "gaming": true, "watch": true, "events": true,
	"groups": true, "photos": true, "videos": true, "settings": true,
	"friends": true, "messages": true, "notifications": true, "search": true,
	"bookmarks": true, "saved": true, "memories": true, "fundraisers": true,
	"jobs": true,
}

// ExtractBlueskyHandle pulls the profile handle from a bsky.app URL.
func ExtractBlueskyHandle(raw *string) *string {
	return extract(blueskyRe, raw)
}

// ExtractFacebookHandle pulls the page name from a facebook.com URL,
// rejecting reserved site sections such as /help or /marketplace.
func ExtractFacebookHandle(raw *string) *string {
	handle := extract(facebookRe, raw)
	if handle == nil {
		return nil
	}

	cleaned := strings.TrimRight(*handle, "/")
	if cleaned == "" {
		return nil
	}
	first := strings.ToLower(strings.SplitN(cleaned, "/", 2)[0])
	if i := strings.IndexByte(first, '?'); i >= 0 {
		first = first[:i]
	}
	if facebookReservedPaths[first] {
		return nil
	}
	return &cleaned
}

// ExtractInstagramHandle pulls the username from an instagram.com URL.
func ExtractInstagramHandle(raw *string) *string {
	return extract(instagramRe, raw)
}

// ExtractLinkedInHandle pulls the profile path from a linkedin.com URL,
// keeping the company/ or in/ prefix.
func ExtractLinkedInHandle(raw *string) *string {
	handle := extract(linkedinRe, raw)
	if handle == nil {
		return nil
	}
	cleaned := strings.TrimRight(*handle, "/")
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// ExtractXHandle pulls the username from an x.com or twitter.com URL.
func ExtractXHandle(raw *string) *string {
	return extract(xRe, raw)
}

func extract(re *regexp.Regexp, raw *string) *string {
	if raw == nil {
		return nil
	}
	m := re.FindStringSubmatch(strings.TrimSpace(*raw))
	if m == nil || m[1] == "" {
		return nil
	}
	return &m[1]
}
