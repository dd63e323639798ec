package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ============================================================
// Geo Access Gate - advisory pre-render check for the storefront
// ============================================================

// Hard-blocked states regardless of the whitelist
var blockedStates = map[string]bool{
	"ID": true,
	"OR": true,
	"SD": true,
}

// States the storefront is cleared to serve. A state on neither list
// is not served.
var allowedStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true,
	"CO": true, "CT": true, "DE": true, "FL": true, "GA": true,
	"HI": true, "IL": true, "IN": true, "IA": true, "KS": true,
	"KY": true, "LA": true, "ME": true, "MD": true, "MA": true,
	"MI": true, "MN": true, "MS": true, "MO": true, "MT": true,
	"NE": true, "NV": true, "NH": true, "NJ": true, "NM": true,
	"NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"PA": true, "RI": true, "SC": true, "TN": true, "TX": true,
	"UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true,
}

const geoCacheTTL = time.Hour

// GeoDecision is the access gate verdict for one IP
type GeoDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// geoEntry caches one decision
type geoEntry struct {
	decision  *GeoDecision
	expiresAt time.Time
}

// geoLookup is the ip-api.com response subset we read
type geoLookup struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
}

// GeoService answers the advisory access-gate check. It fails open:
// the authoritative restricted-state enforcement lives in the member
// and order services, so a lookup outage must never lock anyone out.
type GeoService struct {
	client *http.Client
	store  map[string]*geoEntry
	mu     sync.RWMutex
	usOnly bool
}

// NewGeoService creates a new geo service
func NewGeoService(usOnly bool) *GeoService {
	svc := &GeoService{
		client: &http.Client{Timeout: 5 * time.Second},
		store:  make(map[string]*geoEntry),
		usOnly: usOnly,
	}
	// Drop stale cache entries every 10 minutes
	go svc.cleanupLoop()
	return svc
}

// Check decides whether the storefront should render for this IP.
// Decisions are cached per IP for an hour.
func (s *GeoService) Check(ctx context.Context, ip string, isAdmin bool) *GeoDecision {
	if isAdmin {
		return &GeoDecision{Allowed: true, Reason: "admin"}
	}

	if isPrivateOrLoopback(ip) {
		return &GeoDecision{Allowed: true, Reason: "local"}
	}

	s.mu.RLock()
	entry, ok := s.store[ip]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.decision
	}

	decision := s.resolve(ctx, ip)

	s.mu.Lock()
	s.store[ip] = &geoEntry{
		decision:  decision,
		expiresAt: time.Now().Add(geoCacheTTL),
	}
	s.mu.Unlock()

	return decision
}

// resolve calls ip-api.com and applies the gate rules
func (s *GeoService) resolve(ctx context.Context, ip string) *GeoDecision {
	req, err := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("http://ip-api.com/json/%s?fields=status,countryCode,region", ip), nil)
	if err != nil {
		return &GeoDecision{Allowed: true, Reason: "lookup_unavailable"}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("Geo lookup failed for %s: %v", ip, err)
		return &GeoDecision{Allowed: true, Reason: "lookup_unavailable"}
	}
	defer resp.Body.Close()

	var lookup geoLookup
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil || lookup.Status != "success" {
		return &GeoDecision{Allowed: true, Reason: "lookup_unavailable"}
	}

	region := strings.ToUpper(lookup.Region)

	if s.usOnly && lookup.CountryCode != "US" {
		return &GeoDecision{Allowed: false, Reason: "outside_us", Country: lookup.CountryCode}
	}

	if blockedStates[region] {
		return &GeoDecision{Allowed: false, Reason: "blocked_state", Region: region, Country: lookup.CountryCode}
	}

	if !allowedStates[region] {
		return &GeoDecision{Allowed: false, Reason: "state_not_served", Region: region, Country: lookup.CountryCode}
	}

	return &GeoDecision{Allowed: true, Reason: "ok", Region: region, Country: lookup.CountryCode}
}

// cleanupLoop evicts expired cache entries
func (s *GeoService) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for ip, entry := range s.store {
			if now.After(entry.expiresAt) {
				delete(s.store, ip)
			}
		}
		s.mu.Unlock()
	}
}

// isPrivateOrLoopback reports whether the IP is local and should skip
// the external lookup
func isPrivateOrLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified()
}
