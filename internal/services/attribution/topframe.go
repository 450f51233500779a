package attribution

import (
	"net"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
	"gopkg.in/guregu/null.v3"
)

// RegistrableDomain returns the eTLD+1 of rawurl's host. It is empty for IP
// literals, localhost and hosts that are themselves public suffixes.
func RegistrableDomain(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return "", nil
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", nil
	}
	return registrable, nil
}

// TopFrames tracks the registrable domain of each session's top frame.
type TopFrames struct {
	mu      sync.RWMutex
	domains map[string]string
}

func NewTopFrames() *TopFrames {
	return &TopFrames{domains: make(map[string]string)}
}

// Set records the top frame URL for session and returns its registrable domain.
func (t *TopFrames) Set(session, topFrameURL string) (string, error) {
	registrable, err := RegistrableDomain(topFrameURL)
	if err != nil {
		return "", err
	}
	t.mu.Lock()
	t.domains[session] = registrable
	t.mu.Unlock()
	return registrable, nil
}

// Lookup returns the session's registrable domain, invalid if not yet known.
func (t *TopFrames) Lookup(session string) null.String {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.domains[session]
	if !ok {
		return null.String{}
	}
	return null.StringFrom(d)
}

func (t *TopFrames) Forget(session string) {
	t.mu.Lock()
	delete(t.domains, session)
	t.mu.Unlock()
}
