package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fragments-ui/internal/client/auth"
	"github.com/dmitrijs2005/fragments-ui/internal/client/blobs"
	"github.com/dmitrijs2005/fragments-ui/internal/client/client"
	"github.com/dmitrijs2005/fragments-ui/internal/client/config"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/client/services"
	"github.com/dmitrijs2005/fragments-ui/internal/common"
	"github.com/dmitrijs2005/fragments-ui/internal/logging"
	"github.com/dmitrijs2005/fragments-ui/internal/testutil/fragmentsd"
)

// ------------ helpers ------------

type fakeAuth struct {
	mu sync.Mutex

	user       *models.User
	signInErr  error
	currentErr error
	signOutErr error
	pingErr    error

	signedOut bool
}

func (f *fakeAuth) SignIn(ctx context.Context, username string, password []byte) (*models.User, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.user, nil
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*models.User, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.user, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.signedOut = true
	return f.signOutErr
}

func (f *fakeAuth) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	f.pingErr = err
	f.mu.Unlock()
}

type testEnv struct {
	app *App
	out *bytes.Buffer
	srv *fragmentsd.Server
	api *client.HTTPClient
	as  *fakeAuth
}

func alice() *models.User {
	return models.NewUser(&models.Session{Username: "alice", BasicCredentials: models.BasicCredentials("alice", []byte("pw"))})
}

func newTestEnv(t *testing.T, input ...string) *testEnv {
	t.Helper()

	srv := fragmentsd.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	api, err := client.NewFragmentsClient(ts.URL, blobs.NewDirStore(t.TempDir()), client.WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	as := &fakeAuth{user: alice()}
	out := &bytes.Buffer{}
	in := strings.NewReader(strings.Join(input, "\n") + "\n")

	app := NewApp(&config.Config{}, as, services.NewFragmentService(api), logging.Discard(), in, out)
	app.loc = time.UTC
	app.user = as.user

	return &testEnv{app: app, out: out, srv: srv, api: api, as: as}
}

func (e *testEnv) methods() []string {
	var m []string
	for _, r := range e.srv.Requests() {
		m = append(m, r.Method+" "+r.Path)
	}
	return m
}

func stubPassword(t *testing.T, pw []byte) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

// ------------ fragments ------------

func TestCreate_TypedContentThenList(t *testing.T) {
	e := newTestEnv(t,
		"hello", ".", // content
		"", // type: default
	)

	require.NoError(t, e.app.Create(context.Background()))

	out := e.out.String()
	assert.Contains(t, out, "Created fragment")
	assert.Contains(t, out, "Type: text/plain")
	assert.Contains(t, out, "Size: 5")
	assert.Equal(t, []string{"POST /v1/fragments", "GET /v1/fragments"}, e.methods())
	assert.Equal(t, []byte("hello"), e.srv.Requests()[0].Body)
	require.Len(t, e.app.fragments, 1)
}

func TestCreate_KeepsBlankLinesAndIndentation(t *testing.T) {
	e := newTestEnv(t,
		"# Title", "", "  indented para", "delete abc", "", ".",
		"text/markdown",
	)

	require.NoError(t, e.app.Create(context.Background()))

	assert.Equal(t, []string{"POST /v1/fragments", "GET /v1/fragments"}, e.methods())
	assert.Equal(t, []byte("# Title\n\n  indented para\ndelete abc\n"), e.srv.Requests()[0].Body)

	rest, err := io.ReadAll(e.app.reader)
	require.NoError(t, err)
	assert.Empty(t, rest, "content lines must not reach the command loop")
}

func TestCreate_FromFileGuessesType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\n"), 0o600))

	e := newTestEnv(t, "@"+path, ".", "")

	require.NoError(t, e.app.Create(context.Background()))

	post := e.srv.Requests()[0]
	assert.Equal(t, "text/markdown", post.ContentType)
	assert.Equal(t, []byte("# Notes\n"), post.Body)
}

func TestCreate_FailureAlertsAndSkipsList(t *testing.T) {
	e := newTestEnv(t, "x", ".", "audio/ogg")

	err := e.app.Create(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrCreation)

	assert.Contains(t, e.out.String(), "! Failed to create fragment. Please try again.")
	assert.Equal(t, []string{"POST /v1/fragments"}, e.methods())
}

func TestCreate_MissingFile(t *testing.T) {
	e := newTestEnv(t, "@"+filepath.Join(t.TempDir(), "missing.txt"), ".")

	require.Error(t, e.app.Create(context.Background()))
	assert.Contains(t, e.out.String(), "Could not read the fragment content.")
	assert.Empty(t, e.srv.Requests())
}

func TestView(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	f, err := e.api.CreateFragment(ctx, e.app.user, []byte(`{"a":1}`), "application/json")
	require.NoError(t, err)

	require.NoError(t, e.app.View(ctx, f.ID))
	assert.Contains(t, e.out.String(), "Type: application/json")
	assert.Contains(t, e.out.String(), "\"a\": 1")
}

func TestView_Missing(t *testing.T) {
	e := newTestEnv(t)

	require.Error(t, e.app.View(context.Background(), "nope"))
	assert.Contains(t, e.out.String(), "Failed to retrieve fragment. Please try again.")
}

func TestUpdate_DefaultsToCurrentType(t *testing.T) {
	e := newTestEnv(t, "# new", ".", "")
	ctx := context.Background()

	f, err := e.api.CreateFragment(ctx, e.app.user, []byte("old"), "text/markdown")
	require.NoError(t, err)
	require.NoError(t, e.app.List(ctx))
	e.out.Reset()

	require.NoError(t, e.app.Update(ctx, f.ID))
	assert.Contains(t, e.out.String(), "Updated fragment "+f.ID)

	got, err := e.api.GetFragment(ctx, e.app.user, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "# new", got.Data.Text)
}

func TestUpdate_TypeChangeFails(t *testing.T) {
	e := newTestEnv(t, "{}", ".", "application/json")
	ctx := context.Background()

	f, err := e.api.CreateFragment(ctx, e.app.user, []byte("old"), "text/plain")
	require.NoError(t, err)

	require.Error(t, e.app.Update(ctx, f.ID))
	assert.Contains(t, e.out.String(), "Failed to update fragment. Please try again.")
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	f, err := e.api.CreateFragment(ctx, e.app.user, []byte("bye"), "text/plain")
	require.NoError(t, err)

	require.NoError(t, e.app.Delete(ctx, f.ID))
	assert.Contains(t, e.out.String(), "Deleted fragment "+f.ID)
	assert.Contains(t, e.out.String(), "No fragments found.")
}

func TestDelete_Missing(t *testing.T) {
	e := newTestEnv(t)

	require.Error(t, e.app.Delete(context.Background(), "nope"))
	assert.Contains(t, e.out.String(), "Failed to delete fragment. Please try again.")
}

func TestConvert(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	f, err := e.api.CreateFragment(ctx, e.app.user, []byte("# Hi"), "text/markdown")
	require.NoError(t, err)

	require.NoError(t, e.app.Convert(ctx, f.ID, "html"))
	assert.Equal(t, "Hi\n", e.out.String())
}

func TestConvert_UnsupportedExtension(t *testing.T) {
	e := newTestEnv(t)

	require.Error(t, e.app.Convert(context.Background(), "abc", "exe"))
	assert.Contains(t, e.out.String(), `Unsupported extension "exe"`)
	assert.Empty(t, e.srv.Requests())
}

func TestIDs(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, e.app.IDs(ctx))
	assert.Equal(t, "No fragments found.\n", e.out.String())

	f, err := e.api.CreateFragment(ctx, e.app.user, []byte("x"), "text/plain")
	require.NoError(t, err)
	e.out.Reset()

	require.NoError(t, e.app.IDs(ctx))
	assert.Equal(t, f.ID+"\n", e.out.String())
}

func TestList_RejectedSessionHint(t *testing.T) {
	e := newTestEnv(t)
	e.app.user = nil

	err := e.app.List(context.Background())
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Contains(t, e.out.String(), "Failed to retrieve fragments. Please try again.")
	assert.Contains(t, e.out.String(), "Your session was rejected.")
}

// ------------ auth ------------

func TestLogin_Success(t *testing.T) {
	stubPassword(t, []byte("pw"))
	e := newTestEnv(t, "alice")
	e.app.user = nil

	require.NoError(t, e.app.Login(context.Background()))
	assert.True(t, e.app.isLoggedIn())
	assert.Contains(t, e.out.String(), "Welcome, alice!")
	assert.Contains(t, e.out.String(), "No fragments found.")
}

func TestLogin_WrongPassword(t *testing.T) {
	stubPassword(t, []byte("bad"))
	e := newTestEnv(t, "alice")
	e.app.user = nil
	e.as.signInErr = auth.ErrInvalidCredentials

	require.Error(t, e.app.Login(context.Background()))
	assert.False(t, e.app.isLoggedIn())
	assert.Contains(t, e.out.String(), "Incorrect username or password.")
	assert.Empty(t, e.srv.Requests())
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	e.app.fragments = []models.Fragment{{ID: "a"}}

	require.NoError(t, e.app.Logout(context.Background()))
	assert.True(t, e.as.signedOut)
	assert.False(t, e.app.isLoggedIn())
	assert.Nil(t, e.app.fragments)
	assert.Contains(t, e.out.String(), "Logged out.")
}

func TestRestoreSession(t *testing.T) {
	e := newTestEnv(t)
	e.app.user = nil

	e.app.restoreSession(context.Background())
	assert.True(t, e.app.isLoggedIn())
	assert.Contains(t, e.out.String(), "Welcome back, alice!")

	e = newTestEnv(t)
	e.app.user = nil
	e.as.currentErr = common.ErrNoSession

	e.app.restoreSession(context.Background())
	assert.False(t, e.app.isLoggedIn())
	assert.Contains(t, e.out.String(), "Not logged in.")
	assert.Empty(t, e.srv.Requests())
}

// ------------ status ------------

func TestGetStatus(t *testing.T) {
	a := &App{}
	assert.Equal(t, "", a.getStatus())

	a.user = alice()
	assert.Equal(t, "(alice )", a.getStatus())

	a.log = logging.Discard()
	a.setMode(ModeOnline)
	assert.Equal(t, "(alice online)", a.getStatus())
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	as := &fakeAuth{}
	a := &App{authService: as, log: logging.Discard()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	as.setPingErr(client.ErrUnavailable)
	require.Eventually(t, func() bool { return a.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_HelpExit(t *testing.T) {
	out := capturePrintln(t)
	e := newTestEnv(t, "help", "exit")
	e.app.user = nil
	e.as.currentErr = common.ErrNoSession

	e.app.Run(context.Background())

	assert.Contains(t, e.out.String(), "Welcome to the fragments CLI")
	assert.Contains(t, *out, "Available commands: login, exit")
	assert.Contains(t, *out, "Bye!")
}

func TestRun_RestoresSessionWhileWatcherRuns(t *testing.T) {
	capturePrintln(t)
	e := newTestEnv(t, "exit")
	e.app.config.OnlineCheckInterval = time.Hour
	e.as.setPingErr(client.ErrUnavailable)

	e.app.Run(context.Background())
	// restoreSession lists once; the REPL exits right after
	assert.Contains(t, e.out.String(), "Welcome back, alice!")
	assert.Equal(t, http.MethodGet, e.srv.Requests()[0].Method)
}
