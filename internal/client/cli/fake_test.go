package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
)

type fakeClient struct {
	registerReq *api.RegisterRequest
	verifyEmail string
	verifyOtp   string
	loginUser   string
	loginPass   string
	getUser     string
	updateUser  string
	updatePatch []byte
	deleteUser  string

	refreshCalls int
	logoutCalls  int
	closed       bool
	hadDeadline  bool

	user *api.User
	err  error
}

func (f *fakeClient) note(ctx context.Context) {
	_, f.hadDeadline = ctx.Deadline()
}

func (f *fakeClient) Close() error                   { f.closed = true; return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.err }
func (f *fakeClient) Register(ctx context.Context, req *api.RegisterRequest) error {
	f.note(ctx)
	f.registerReq = req
	return f.err
}
func (f *fakeClient) VerifyOtp(ctx context.Context, email, otp string) error {
	f.verifyEmail, f.verifyOtp = email, otp
	return f.err
}
func (f *fakeClient) Login(ctx context.Context, userName string, password []byte) error {
	f.note(ctx)
	f.loginUser, f.loginPass = userName, string(password)
	return f.err
}
func (f *fakeClient) Refresh(ctx context.Context) error { f.refreshCalls++; return f.err }
func (f *fakeClient) Logout(ctx context.Context) error  { f.logoutCalls++; return f.err }
func (f *fakeClient) GetUser(ctx context.Context, userName string) (*api.User, error) {
	f.getUser = userName
	return f.user, f.err
}
func (f *fakeClient) UpdateUser(ctx context.Context, userName string, patch []byte) (*api.User, error) {
	f.updateUser, f.updatePatch = userName, patch
	return f.user, f.err
}
func (f *fakeClient) DeleteUser(ctx context.Context, userName string) error {
	f.deleteUser = userName
	return f.err
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func newTestApp(fc *fakeClient, lines ...string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &App{
		config: &config.Config{ServerEndpointAddr: "test", RequestTimeout: time.Second},
		client: fc,
		reader: readerFromLines(lines...),
		out:    out,
	}, out
}

// stubPasswords makes getPassword return the given answers in order.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })

	i := 0
	getPassword = func(string, io.Writer) ([]byte, error) {
		if i >= len(answers) {
			return nil, io.EOF
		}
		pw := []byte(answers[i])
		i++
		return pw, nil
	}
}
