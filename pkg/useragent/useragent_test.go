package useragent

import (
	"fmt"
	"sync"
	"testing"

	"github.com/corpix/uarand"
)

const (
	safari11   = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_13_1) AppleWebKit/604.3.5 (KHTML, like Gecko) Version/11.0.1 Safari/604.3.5"
	chrome     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefox    = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	ie10       = "Mozilla/5.0 (compatible; MSIE 10.0; Windows NT 6.2; Trident/6.0)"
	ie11       = "Mozilla/5.0 (Windows NT 10.0; WOW64; Trident/7.0; rv:11.0) like Gecko"
	edge16     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36 Edge/16.16299"
	edge15     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/52.0.2743.116 Safari/537.36 Edge/15.15063"
	chromeIOS  = "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) CriOS/62.0.3202.70 Mobile/15A372 Safari/604.1"
	firefoxIOS = "Mozilla/5.0 (iPhone; CPU iPhone OS 11_0 like Mac OS X) AppleWebKit/604.1.38 (KHTML, like Gecko) FxiOS/10.0b6373 Mobile/15A372 Safari/604.1.38"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		ua        string
		microsoft bool
		safari    int
		webkit    bool
		bad       bool
	}{
		{"Safari11", safari11, false, 11, true, true},
		{"DesktopChrome", chrome, false, -1, false, false},
		{"Firefox", firefox, false, -1, false, false},
		{"IE10", ie10, true, -1, false, true},
		{"IE11", ie11, true, -1, false, true},
		{"Edge16", edge16, true, -1, false, true},
		{"Edge15NotListed", edge15, false, -1, false, false},
		{"ChromeIOS", chromeIOS, false, -1, true, true},
		{"FirefoxIOS", firefoxIOS, false, -1, true, true},
		{"Empty", "", false, -1, false, false},
		{"MSIEAtStart", "MSIE 9.0", false, -1, false, false},
		{"SafariWithoutVersion", "AppleWebKit Safari/605", false, -1, false, false},
		{"SafariFractionOnly", "Safari Version/.5", false, -1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMicrosoft(tt.ua); got != tt.microsoft {
				t.Errorf("IsMicrosoft = %v, want %v", got, tt.microsoft)
			}
			if got := SafariVersion(tt.ua); got != tt.safari {
				t.Errorf("SafariVersion = %d, want %d", got, tt.safari)
			}
			if got := IsSafariWebkit(tt.ua); got != tt.webkit {
				t.Errorf("IsSafariWebkit = %v, want %v", got, tt.webkit)
			}
			if got := BadMarkerSupport(tt.ua); got != tt.bad {
				t.Errorf("BadMarkerSupport = %v, want %v", got, tt.bad)
			}
		})
	}
}

func TestClassifyMatchesPredicates(t *testing.T) {
	for i := 0; i < 200; i++ {
		ua := uarand.GetRandom()
		p := Classify(ua)
		if p.BadMarkerSupport != BadMarkerSupport(ua) ||
			p.Microsoft != IsMicrosoft(ua) ||
			p.SafariWebkit != IsSafariWebkit(ua) ||
			p.SafariVersion != SafariVersion(ua) {
			t.Fatalf("profile %+v disagrees with predicates for %q", p, ua)
		}
	}
}

func TestSession(t *testing.T) {
	s := Session(safari11)
	first := s()
	if !first.BadMarkerSupport {
		t.Fatal("Safari 11 session must report bad marker support")
	}
	if s() != first {
		t.Error("session profile changed")
	}
}

func TestDetectorConcurrent(t *testing.T) {
	var d Detector
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ua := chrome
			if i%2 == 0 {
				ua = safari11
			}
			if got, want := d.Classify(ua), Classify(ua); got != want {
				t.Errorf("Classify(%q) = %+v, want %+v", ua, got, want)
			}
		}(i)
	}
	wg.Wait()
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func ExampleBadMarkerSupport() {
	fmt.Println(BadMarkerSupport(safari11))
	fmt.Println(BadMarkerSupport(chrome))
	// Output:
	// true
	// false
}
