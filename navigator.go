package auth

import (
	"sync"
	"sync/atomic"
	"time"
)

// Navigator is the redirect sink handed to the request gateway so the
// network layer never drives page navigation directly.
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// NavigatorFuncs adapts two functions into a Navigator
type NavigatorFuncs struct {
	Current func() string
	Go      func(path string)
}

func (n NavigatorFuncs) CurrentPath() string {
	if n.Current == nil {
		return ""
	}
	return n.Current()
}

func (n NavigatorFuncs) Navigate(path string) {
	if n.Go != nil {
		n.Go(path)
	}
}

var _ Navigator = &DeferredNavigator{}

// DeferredNavigator delays redirects so they never run in the middle of
// another component's work. Only one redirect is pending at any time,
// further requests are dropped until it fires.
type DeferredNavigator struct {
	target    Navigator
	delay     time.Duration
	pending   atomic.Bool
	afterFunc func(d time.Duration, f func())
}

// NewDeferredNavigator wraps target with a redirect delay
func NewDeferredNavigator(target Navigator, delay time.Duration) *DeferredNavigator {
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}
	return &DeferredNavigator{
		target: target,
		delay:  delay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (n *DeferredNavigator) CurrentPath() string {
	return n.target.CurrentPath()
}

func (n *DeferredNavigator) Navigate(path string) {
	if !n.pending.CompareAndSwap(false, true) {
		return
	}
	n.afterFunc(n.delay, func() {
		defer n.pending.Store(false)
		n.target.Navigate(path)
	})
}

// Pending reports whether a redirect is scheduled
func (n *DeferredNavigator) Pending() bool {
	return n.pending.Load()
}

var _ Navigator = &RequestNavigator{}

// RequestNavigator collects a redirect for the HTTP request being served.
// The guard middleware applies it once the handler returned.
type RequestNavigator struct {
	path    string
	mu      sync.Mutex
	pending string
}

// NewRequestNavigator creates a navigator for the page at path
func NewRequestNavigator(path string) *RequestNavigator {
	return &RequestNavigator{path: path}
}

func (n *RequestNavigator) CurrentPath() string {
	return n.path
}

// Navigate keeps the first requested location
func (n *RequestNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == "" {
		n.pending = path
	}
}

// Pending returns the collected redirect, if any
func (n *RequestNavigator) Pending() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending, n.pending != ""
}
