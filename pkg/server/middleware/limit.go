/* Copyright (C) 2019, 2020, 2021, 2022, 2023, 2024, 2025 Dnote contributors
 *
 * This file is part of Dnote.
 *
 * Dnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Dnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Dnote.  If not, see <https://www.gnu.org/licenses/>.
 */

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/habitboard/habitboard/pkg/clock"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// visitorIdleTimeout is how long a client is remembered after its last request
	visitorIdleTimeout = 3 * time.Minute
	// pruneInterval is how often idle clients are forgotten
	pruneInterval = time.Minute
)

// Limits is the request rate allowed per client
type Limits struct {
	PerSecond float64
	Burst     int
}

// DefaultLimits are the limits of the server
var DefaultLimits = Limits{PerSecond: 50, Burst: 100}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits the request rate of every client separately
type RateLimiter struct {
	limits   Limits
	clock    clock.Clock
	visitors map[string]*visitor
	mtx      sync.Mutex
}

// NewRateLimiter returns a rate limiter. Tokens refill by the given clock.
func NewRateLimiter(limits Limits, c clock.Clock) *RateLimiter {
	return &RateLimiter{
		limits:   limits,
		clock:    c,
		visitors: make(map[string]*visitor),
	}
}

var (
	defaultLimiter     *RateLimiter
	defaultLimiterOnce sync.Once
)

func getDefaultLimiter() *RateLimiter {
	defaultLimiterOnce.Do(func() {
		defaultLimiter = NewRateLimiter(DefaultLimits, clock.New())
		go defaultLimiter.pruneLoop()
	})

	return defaultLimiter
}

// Allow reports whether the client may make a request now and spends a
// token if so
func (rl *RateLimiter) Allow(client string) bool {
	now := rl.clock.Now()

	rl.mtx.Lock()
	v, ok := rl.visitors[client]
	if !ok {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Limit(rl.limits.PerSecond), rl.limits.Burst),
		}
		rl.visitors[client] = v
	}
	v.lastSeen = now
	rl.mtx.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Prune forgets the clients idle for longer than the given duration and
// returns how many were forgotten
func (rl *RateLimiter) Prune(idle time.Duration) int {
	now := rl.clock.Now()

	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	n := 0
	for client, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(rl.visitors, client)
			n++
		}
	}

	return n
}

func (rl *RateLimiter) pruneLoop() {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.Prune(visitorIdleTimeout)
	}
}

func isTrusted(host string, trusted []*net.IPNet) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}

	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}

	return false
}

// clientIP returns the address of the client. The headers set by a reverse
// proxy are only read when the request comes from one of the trusted proxies.
func clientIP(r *http.Request, trusted []*net.IPNet) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if !isTrusted(host, trusted) {
		return host
	}

	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	return host
}

// Limit is a middleware to rate limit the handler. Requests from the
// trusted proxies are counted against the client they forward for.
func (rl *RateLimiter) Limit(next http.Handler, trusted []*net.IPNet) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r, trusted)

		if !rl.Allow(ip) {
			log.WithFields(log.Fields{
				"ip":   ip,
				"path": r.URL.Path,
			}).Warn("Too many requests.")

			w.Header().Set("Retry-After", "1")
			RespondError(w, app.ErrRateLimited, "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ApplyLimit rate limits the handler with the server limiter. Limits are
// off in the test environment.
func ApplyLimit(h http.HandlerFunc, a *app.App, rateLimit bool) http.Handler {
	if !rateLimit || (a != nil && a.AppEnv == app.AppEnvTest) {
		return h
	}

	var trusted []*net.IPNet
	if a != nil {
		trusted = a.TrustedProxies
	}

	return getDefaultLimiter().Limit(h, trusted)
}
