package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/gateway"
	"github.com/arkavidia/competition-gateway/internal/gateway/fakeapi"
)

func newRegistry(t *testing.T) (*Registry, *fakeapi.Server) {
	t.Helper()

	fake := fakeapi.New("test-secret")
	fake.AddUser(domain.User{Email: "a@b.com", FullName: "A B"}, "pw", true)
	fake.AddCompetition(domain.Competition{ID: 1, Slug: "cp", Name: "CP", IsRegistrationOpen: true})
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := gateway.NewClient(srv.URL, srv.Client(), logger)
	return NewRegistry(client, time.Hour, logger), fake
}

func TestOpenAndLookup(t *testing.T) {
	r, _ := newRegistry(t)
	ctx := context.Background()

	ws, res, err := r.Open(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	found, ok := r.Lookup(res.BearerToken)
	require.True(t, ok)
	assert.Same(t, ws, found)

	// the workspace's gateway client follows the session token
	_, err = ws.Competitions.FetchTeamList(ctx)
	require.NoError(t, err)
}

func TestOpen_FailureRegistersNothing(t *testing.T) {
	r, _ := newRegistry(t)

	_, _, err := r.Open(context.Background(), "a@b.com", "wrong")

	var apiErr *domain.APIError[domain.LoginStatus]
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, domain.LoginInvalidCreds, apiErr.Status)
	assert.Zero(t, r.Len())
}

func TestWorkspacesAreIsolated(t *testing.T) {
	r, fake := newRegistry(t)
	fake.AddUser(domain.User{Email: "c@d.com", FullName: "C D"}, "pw", true)
	ctx := context.Background()

	first, _, err := r.Open(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	second, _, err := r.Open(ctx, "c@d.com", "pw")
	require.NoError(t, err)

	_, err = first.Competitions.RegisterTeam(ctx, 1, "Alpha", "ITB")
	require.NoError(t, err)

	assert.Len(t, first.Store.Teams(), 1)
	assert.Empty(t, second.Store.Teams())
}

func TestLookup_DropsExpired(t *testing.T) {
	r, _ := newRegistry(t)
	_, res, err := r.Open(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	r.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	_, ok := r.Lookup(res.BearerToken)
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRestore(t *testing.T) {
	r, fake := newRegistry(t)
	token, exp, err := fake.IssueToken("a@b.com")
	require.NoError(t, err)

	ws, err := r.Restore(context.Background(), token)

	require.NoError(t, err)
	user, ok := ws.Session.User()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, exp*1000, ws.Session.ExpiresAt())

	again, err := r.Restore(context.Background(), token)
	require.NoError(t, err)
	assert.Same(t, ws, again)
	assert.Equal(t, 1, r.Len())
}

func TestRestore_Rejected(t *testing.T) {
	r, _ := newRegistry(t)

	_, err := r.Restore(context.Background(), "garbage")
	require.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = r.Restore(context.Background(), signed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, r.Len())
}

func TestClose(t *testing.T) {
	r, _ := newRegistry(t)
	ws, res, err := r.Open(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	assert.True(t, r.Close(res.BearerToken))
	assert.False(t, r.Close(res.BearerToken))
	assert.Empty(t, ws.Session.Token())
	assert.Zero(t, r.Len())
}

func TestRestore_ConcurrentSameToken(t *testing.T) {
	fake := fakeapi.New("test-secret")
	fake.AddUser(domain.User{Email: "a@b.com", FullName: "A B"}, "pw", true)

	// both session lookups are held until the second one arrives
	var arrived sync.WaitGroup
	arrived.Add(2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/auth/" {
			arrived.Done()
			arrived.Wait()
		}
		fake.ServeHTTP(w, req)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRegistry(gateway.NewClient(srv.URL, srv.Client(), logger), time.Hour, logger)

	token, _, err := fake.IssueToken("a@b.com")
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		results [2]*Workspace
		errs    [2]error
	)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Restore(context.Background(), token)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Same(t, results[0], results[1])
	assert.Equal(t, 1, r.Len())

	ws, ok := r.Lookup(token)
	require.True(t, ok)
	assert.Same(t, results[0], ws)
}

func TestRestore_AfterClose(t *testing.T) {
	r, fake := newRegistry(t)
	_, res, err := r.Open(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.True(t, r.Close(res.BearerToken))
	before := len(fake.Requests())

	_, err = r.Restore(context.Background(), res.BearerToken)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Zero(t, r.Len())
	assert.Len(t, fake.Requests(), before)

	// logging in again lifts the revocation
	_, again, err := r.Open(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	ws, err := r.Restore(context.Background(), again.BearerToken)
	require.NoError(t, err)
	assert.NotNil(t, ws)
}

func TestRevokedTokensArePruned(t *testing.T) {
	r, fake := newRegistry(t)
	token, _, err := fake.IssueToken("a@b.com")
	require.NoError(t, err)

	assert.False(t, r.Close(token))
	assert.True(t, r.isRevoked(token))

	r.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	assert.False(t, r.isRevoked(token))
	assert.Empty(t, r.revoked)
}

func TestPut(t *testing.T) {
	r, _ := newRegistry(t)
	live := r.newWorkspace()
	live.Session.Set(domain.AuthenticationResult{
		BearerToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour).UnixMilli(),
		User:        domain.User{Email: "a@b.com"},
	})

	kept, err := r.put("tok", live)
	require.NoError(t, err)
	assert.Same(t, live, kept)

	kept, err = r.put("tok", r.newWorkspace())
	require.NoError(t, err)
	assert.Same(t, live, kept)

	r.revoked["other"] = time.Now().Add(time.Hour)
	_, err = r.put("other", r.newWorkspace())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
