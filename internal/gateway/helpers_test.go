package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkavidia/competition-gateway/internal/domain"
	"github.com/arkavidia/competition-gateway/internal/gateway/fakeapi"
)

const (
	testEmail    = "a@b.com"
	testPassword = "secret"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeEnv starts a fake service with one confirmed user.
func newFakeEnv(t *testing.T) (*fakeapi.Server, *Client) {
	t.Helper()

	fake := fakeapi.New("test-secret")
	fake.AddUser(domain.User{Email: testEmail, FullName: "A B"}, testPassword, true)

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, NewClient(srv.URL, srv.Client(), discardLogger())
}

// loggedIn returns a client bound to a fresh token for the test user.
func loggedIn(t *testing.T, fake *fakeapi.Server, client *Client) *Client {
	t.Helper()

	token, _, err := fake.IssueToken(testEmail)
	require.NoError(t, err)
	return client.WithToken(token)
}

// stubServer serves a single canned handler.
func stubServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), discardLogger())
}

// deadClient points at a closed server to produce transport failures.
func deadClient(t *testing.T) *Client {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return NewClient(url, nil, discardLogger())
}
