package vault

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_CachedTokenValidatesWithoutPrompt(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	cache := newMemCache()
	require.NoError(t, cache.Set(cacheKeyToken, store.token))

	prompted := false
	prompt := func(string) (string, error) {
		prompted = true
		return store.password, nil
	}

	client := newTestClient(t, srv.URL, cache, prompt)

	require.NoError(t, client.Login(context.Background()))

	// Exactly one validation round-trip, no login, no prompt.
	assert.False(t, prompted)
	assert.Equal(t, 1, store.lookupCalls)
	assert.Equal(t, 0, store.loginCalls)
	assert.True(t, client.Authenticated())
}

func TestLogin_StaleCachedTokenFallsBackToPrompt(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	cache := newMemCache()
	require.NoError(t, cache.Set(cacheKeyToken, "stale-token"))

	prompts := 0
	prompt := func(string) (string, error) {
		prompts++
		return store.password, nil
	}

	client := newTestClient(t, srv.URL, cache, prompt)

	require.NoError(t, client.Login(context.Background()))

	assert.Equal(t, 1, prompts)
	assert.Equal(t, 1, store.loginCalls)

	// The fresh token replaced the stale one in the cache.
	cached, err := cache.Get(cacheKeyToken)
	require.NoError(t, err)
	assert.Equal(t, store.token, cached)
}

func TestLogin_EmptyCacheNoPromptFails(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	client := newTestClient(t, srv.URL, newMemCache(), nil)

	err := client.Login(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoCredentialSource))
	assert.False(t, client.Authenticated())
}

func TestLoginPassword_PersistsTokenBeforeReturning(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	cache := newMemCache()
	client := newTestClient(t, srv.URL, cache, nil)

	require.NoError(t, client.LoginPassword(context.Background(), store.password))

	cached, err := cache.Get(cacheKeyToken)
	require.NoError(t, err)
	assert.Equal(t, store.token, cached)
	assert.True(t, client.Authenticated())
}

func TestLoginPassword_WrongPassword(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	cache := newMemCache()
	client := newTestClient(t, srv.URL, cache, nil)

	err := client.LoginPassword(context.Background(), "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuthRejected))
	assert.Contains(t, err.Error(), "invalid username or password")

	// A rejected login must not leave a token anywhere.
	cached, cacheErr := cache.Get(cacheKeyToken)
	require.NoError(t, cacheErr)
	assert.Empty(t, cached)
	assert.False(t, client.Authenticated())
}

func TestLoginPassword_LowercasesLoginPath(t *testing.T) {
	// The fake rejects any login path other than .../login/testuser, and
	// newTestClient configures the username as "TestUser".
	store := newFakeStore()
	srv := store.serve(t)

	client := newTestClient(t, srv.URL, newMemCache(), nil)

	require.NoError(t, client.LoginPassword(context.Background(), store.password))
}

func TestLoginPassword_MissingClientToken(t *testing.T) {
	// An auth envelope without a token is malformed.
	store := newFakeStore()
	store.token = ""
	srv := store.serve(t)

	client := newTestClient(t, srv.URL, newMemCache(), nil)

	err := client.LoginPassword(context.Background(), store.password)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestLoginCached(t *testing.T) {
	cache := newMemCache()
	client := newTestClient(t, "https://example.com", cache, nil)

	err := client.LoginCached()
	assert.True(t, errors.Is(err, ErrNoCachedToken))

	require.NoError(t, cache.Set(cacheKeyToken, "tok"))
	require.NoError(t, client.LoginCached())
	assert.True(t, client.Authenticated())
}

func TestLoginCached_PropagatesCacheFailure(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("cache file unreadable")

	client := newTestClient(t, "https://example.com", cache, nil)

	err := client.LoginCached()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoCachedToken))
	assert.Contains(t, err.Error(), "cache file unreadable")
}

func TestLogout_RevokesAndClearsCache(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	cache := newMemCache()
	require.NoError(t, cache.Set(cacheKeyToken, store.token))

	client := newTestClient(t, srv.URL, cache, nil)
	require.NoError(t, client.LoginCached())

	require.NoError(t, client.Logout(context.Background()))

	assert.False(t, client.Authenticated())

	cached, err := cache.Get(cacheKeyToken)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestLogout_ForbiddenIsStillSuccess(t *testing.T) {
	store := newFakeStore()
	store.revokeStatus = http.StatusForbidden
	srv := store.serve(t)

	cache := newMemCache()
	require.NoError(t, cache.Set(cacheKeyToken, store.token))

	client := newTestClient(t, srv.URL, cache, nil)
	require.NoError(t, client.LoginCached())

	// Revoking an already-invalid token reaches the same end state.
	require.NoError(t, client.Logout(context.Background()))

	cached, err := cache.Get(cacheKeyToken)
	require.NoError(t, err)
	assert.Empty(t, cached)
}

func TestLogout_OtherStatusIsError(t *testing.T) {
	store := newFakeStore()
	store.revokeStatus = http.StatusInternalServerError
	srv := store.serve(t)

	cache := newMemCache()
	require.NoError(t, cache.Set(cacheKeyToken, store.token))

	client := newTestClient(t, srv.URL, cache, nil)
	require.NoError(t, client.LoginCached())

	err := client.Logout(context.Background())
	require.Error(t, err)

	// The cached token stays; the caller may retry.
	cached, cacheErr := cache.Get(cacheKeyToken)
	require.NoError(t, cacheErr)
	assert.Equal(t, store.token, cached)
}

func TestLogout_NoTokenIsNoOp(t *testing.T) {
	client := newTestClient(t, "https://example.com", newMemCache(), nil)

	require.NoError(t, client.Logout(context.Background()))
}

func TestLookupToken_LenientOnShape(t *testing.T) {
	store := newFakeStore()
	srv := store.serve(t)

	cache := newMemCache()
	require.NoError(t, cache.Set(cacheKeyToken, store.token))

	client := newTestClient(t, srv.URL, cache, nil)
	require.NoError(t, client.LoginCached())

	raw, err := client.LookupToken(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
