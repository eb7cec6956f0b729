// Package useragent classifies browsers by their User-Agent string.
//
// The only decision that depends on the browser is whether SVG markers can
// be trusted: Internet Explorer, legacy Edge and the Safari 11 WebKit engine
// (Safari on macOS and iOS, plus Chrome and Firefox on iOS) render
// marker-end references unreliably after DOM updates. Styles fall back to
// explicit arrow elements for those browsers.
package useragent

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var (
	tridentRe = regexp.MustCompile(`Trident.*rv:11\.`)
	edgeRe    = regexp.MustCompile(`(?i)Edge/(1[2678]).`)
	versionRe = regexp.MustCompile(`Version/(\d*\.\d*)`)
	iosRe     = regexp.MustCompile(`(CriOS|FxiOS)`)
)

// IsMicrosoft reports whether ua belongs to Internet Explorer or legacy Edge.
func IsMicrosoft(ua string) bool {
	return strings.Index(ua, "MSIE ") > 0 || tridentRe.MatchString(ua) || edgeRe.MatchString(ua)
}

// SafariVersion returns the major Safari version, or -1 when ua is not
// Safari or carries no parsable version.
func SafariVersion(ua string) int {
	if !strings.Contains(ua, "Safari") || strings.Contains(ua, "Chrome") {
		return -1
	}
	m := versionRe.FindStringSubmatch(ua)
	if len(m) < 2 {
		return -1
	}
	major, _, _ := strings.Cut(m[1], ".")
	v, err := strconv.Atoi(major)
	if err != nil {
		return -1
	}
	return v
}

// IsSafariWebkit reports whether ua uses the Safari WebKit engine.
func IsSafariWebkit(ua string) bool {
	return SafariVersion(ua) > -1 || iosRe.MatchString(ua)
}

// BadMarkerSupport reports whether SVG markers should be avoided for ua.
func BadMarkerSupport(ua string) bool {
	return IsMicrosoft(ua) || IsSafariWebkit(ua)
}

// Profile is the full classification of one User-Agent string.
type Profile struct {
	UserAgent        string `json:"user_agent"`
	Microsoft        bool   `json:"microsoft"`
	SafariVersion    int    `json:"safari_version"`
	SafariWebkit     bool   `json:"safari_webkit"`
	BadMarkerSupport bool   `json:"bad_marker_support"`
}

// Classify evaluates every predicate for ua.
func Classify(ua string) Profile {
	p := Profile{
		UserAgent:     ua,
		Microsoft:     IsMicrosoft(ua),
		SafariVersion: SafariVersion(ua),
	}
	p.SafariWebkit = p.SafariVersion > -1 || iosRe.MatchString(ua)
	p.BadMarkerSupport = p.Microsoft || p.SafariWebkit
	return p
}

// Session returns a function that classifies ua on first use and returns
// the same profile afterwards. It models a page session, where the browser
// cannot change.
func Session(ua string) func() Profile {
	return sync.OnceValue(func() Profile { return Classify(ua) })
}

// Detector memoizes classifications per distinct User-Agent string.
// It is safe for concurrent use.
type Detector struct {
	profiles sync.Map
}

// Classify returns the cached profile for ua, computing it once.
func (d *Detector) Classify(ua string) Profile {
	if p, ok := d.profiles.Load(ua); ok {
		return p.(Profile)
	}
	p, _ := d.profiles.LoadOrStore(ua, Classify(ua))
	return p.(Profile)
}

// Len returns the number of distinct User-Agent strings seen.
func (d *Detector) Len() int {
	n := 0
	d.profiles.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
