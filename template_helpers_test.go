package auth_test

import (
	"testing"

	"github.com/goliatone/go-router"
	auth "github.com/goliatone/go-travel-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateHelpers(t *testing.T) {
	helpers := auth.TemplateHelpers()
	require.Len(t, helpers, 3)

	isAuthenticated := helpers["is_authenticated"].(func(any) bool)
	isAdmin := helpers["is_admin"].(func(any) bool)
	isExpired := helpers["is_expired"].(func(any) bool)

	admin := auth.SessionView{SessionSnapshot: auth.SessionSnapshot{Present: true, Admin: true}}
	expired := auth.SessionSnapshot{Present: true, Expired: true}

	assert.True(t, isAuthenticated(admin))
	assert.True(t, isAuthenticated(&admin))
	assert.True(t, isAdmin(admin))
	assert.False(t, isExpired(admin))

	assert.True(t, isAuthenticated(expired))
	assert.True(t, isExpired(&expired))
	assert.False(t, isAdmin(expired))

	assert.False(t, isAdmin(auth.SessionSnapshot{Admin: true}), "admin needs a credential")

	var nilView *auth.SessionView
	for _, v := range []any{nil, "session", 42, nilView} {
		assert.False(t, isAuthenticated(v))
		assert.False(t, isAdmin(v))
		assert.True(t, isExpired(v))
	}
}

func TestSessionViewFromStore(t *testing.T) {
	view := auth.SessionViewFromStore(storeWith(validToken(t, true)))
	assert.True(t, view.Present)
	assert.False(t, view.Expired)
	assert.True(t, view.Admin)
	assert.Equal(t, "ana@example.com", view.Email)
	assert.Equal(t, "Ana", view.Name)

	empty := auth.SessionViewFromStore(storeWith(""))
	assert.Equal(t, auth.SessionView{SessionSnapshot: auth.SessionSnapshot{Expired: true}}, empty)
}

func TestMergeTemplateData(t *testing.T) {
	c := newTestContext("GET", "/trips").withCookie("token", validToken(t, false))
	data := router.ViewContext{"trips": []string{"a"}}

	merged := auth.MergeTemplateData(c, auth.DefaultOptions(), data)

	assert.Equal(t, []string{"a"}, merged["trips"])
	view, ok := merged[auth.TemplateSessionKey].(auth.SessionView)
	require.True(t, ok)
	assert.True(t, view.Present)
	assert.False(t, view.Admin)

	assert.NotContains(t, data, auth.TemplateSessionKey, "input is not modified")
	assert.Equal(t, "", merged["csrf_token"])
}

func TestMergeTemplateData_FormToken(t *testing.T) {
	c := newTestContext("GET", "/login")
	c.locals["csrf_token"] = "tok"

	merged := auth.MergeTemplateData(c, auth.DefaultOptions(), nil)

	assert.Equal(t, "tok", merged["csrf_token"])
	assert.Equal(t, `<input type="hidden" name="_token" value="tok">`, merged["csrf_field"])
}
