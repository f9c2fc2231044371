/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package users holds the signed-in user and company. The session is written
// only by Provider.Login and Provider.Logout; everything else reads a copy,
// usually from the request context.
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyUser = errors.New("user name is required")

// Session is the authentication state of the current user.
type Session struct {
	Token      string
	User       string
	Company    string
	LoggedInAt time.Time
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Provider owns the session.
type Provider struct {
	mu      sync.RWMutex
	current Session
	now     func() time.Time
}

// NewProvider returns a provider with nobody signed in.
func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

// Login replaces the session with a new one for user at company.
func (p *Provider) Login(user, company string) (Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return Session{}, ErrEmptyUser
	}
	s := Session{
		Token:      uuid.NewString(),
		User:       user,
		Company:    strings.TrimSpace(company),
		LoggedInAt: p.now(),
	}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	return s, nil
}

// Logout clears the session.
func (p *Provider) Logout() {
	p.mu.Lock()
	p.current = Session{}
	p.mu.Unlock()
}

// Current returns a copy of the session.
func (p *Provider) Current() Session {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// Middleware stores the current session in every request context.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), p.Current())))
	})
}
