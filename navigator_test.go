package auth_test

import (
	"sync"
	"testing"
	"time"

	auth "github.com/goliatone/go-travel-auth"
	"github.com/stretchr/testify/assert"
)

func TestDeferredNavigator_CoalescesRedirects(t *testing.T) {
	target := &recordingNavigator{current: "/trips"}
	nav := auth.NewDeferredNavigator(target, 200*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			nav.Navigate("/login")
		}()
	}
	wg.Wait()

	assert.True(t, nav.Pending())
	assert.Empty(t, target.Visits(), "redirect runs after the delay")

	assert.Eventually(t, func() bool {
		return len(target.Visits()) == 1 && !nav.Pending()
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"/login"}, target.Visits())
}

func TestDeferredNavigator_AcceptsNewRedirectAfterFiring(t *testing.T) {
	target := &recordingNavigator{}
	nav := auth.NewDeferredNavigator(target, 5*time.Millisecond)

	nav.Navigate("/login")
	assert.Eventually(t, func() bool { return !nav.Pending() }, time.Second, time.Millisecond)

	nav.Navigate("/account")
	assert.Eventually(t, func() bool { return len(target.Visits()) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"/login", "/account"}, target.Visits())
}

func TestDeferredNavigator_CurrentPath(t *testing.T) {
	nav := auth.NewDeferredNavigator(&recordingNavigator{current: "/buses"}, 0)
	assert.Equal(t, "/buses", nav.CurrentPath())
}

func TestRequestNavigator_FirstRedirectWins(t *testing.T) {
	nav := auth.NewRequestNavigator("/trips")

	_, ok := nav.Pending()
	assert.False(t, ok)

	nav.Navigate("/login")
	nav.Navigate("/account")

	location, ok := nav.Pending()
	assert.True(t, ok)
	assert.Equal(t, "/login", location)
	assert.Equal(t, "/trips", nav.CurrentPath())
}

func TestNavigatorFuncs_NilFuncs(t *testing.T) {
	var nav auth.NavigatorFuncs
	assert.Empty(t, nav.CurrentPath())
	assert.NotPanics(t, func() { nav.Navigate("/login") })

	var visited string
	nav = auth.NavigatorFuncs{
		Current: func() string { return "/x" },
		Go:      func(path string) { visited = path },
	}
	nav.Navigate("/login")
	assert.Equal(t, "/x", nav.CurrentPath())
	assert.Equal(t, "/login", visited)
}
