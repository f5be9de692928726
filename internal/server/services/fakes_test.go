package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/dbx"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/pending"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore emulates the unique indexes and the username cascade of the
// PostgreSQL schema.
type memStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	sessions map[string]models.Session
	pending  map[string]models.PendingRegistration

	// injected faults
	accountsErr      error
	upsertErr        error
	createSessionErr error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[string]models.Account{},
		sessions: map[string]models.Session{},
		pending:  map[string]models.PendingRegistration{},
	}
}

func (m *memStore) sessionsOf(userName string) []models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Session
	for _, s := range m.sessions {
		if s.UserName == userName {
			out = append(out, s)
		}
	}
	return out
}

func (m *memStore) account(userName string) (models.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userName]
	return a, ok
}

func (m *memStore) pendingFor(email string) (models.PendingRegistration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[email]
	return p, ok
}

type memAccounts struct{ m *memStore }

func (r memAccounts) Create(ctx context.Context, a *models.Account) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.accountsErr != nil {
		return r.m.accountsErr
	}
	for _, existing := range r.m.accounts {
		if existing.UserName == a.UserName || existing.Email == a.Email {
			return common.ErrAlreadyExists
		}
	}
	r.m.accounts[a.UserName] = *a
	return nil
}

func (r memAccounts) GetByUserName(ctx context.Context, userName string) (*models.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.accountsErr != nil {
		return nil, r.m.accountsErr
	}
	a, ok := r.m.accounts[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r memAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.accountsErr != nil {
		return nil, r.m.accountsErr
	}
	for _, a := range r.m.accounts {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memAccounts) ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.accountsErr != nil {
		return false, r.m.accountsErr
	}
	for _, a := range r.m.accounts {
		if a.UserName == userName || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r memAccounts) Replace(ctx context.Context, userName string, a *models.Account) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.accounts[userName]; !ok {
		return common.ErrorNotFound
	}
	for name, existing := range r.m.accounts {
		if name == userName {
			continue
		}
		if existing.UserName == a.UserName || existing.Email == a.Email {
			return common.ErrAlreadyExists
		}
	}
	delete(r.m.accounts, userName)
	r.m.accounts[a.UserName] = *a
	for token, s := range r.m.sessions {
		if s.UserName == userName {
			s.UserName = a.UserName
			r.m.sessions[token] = s
		}
	}
	return nil
}

func (r memAccounts) DeleteByUserName(ctx context.Context, userName string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.accounts[userName]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.accounts, userName)
	return nil
}

type memSessions struct{ m *memStore }

func (r memSessions) Create(ctx context.Context, s *models.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.createSessionErr != nil {
		return r.m.createSessionErr
	}
	if _, ok := r.m.sessions[s.RefreshToken]; ok {
		return common.ErrAlreadyExists
	}
	r.m.sessions[s.RefreshToken] = *s
	return nil
}

func (r memSessions) FindByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sessions[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &s, nil
}

func (r memSessions) DeleteByRefreshToken(ctx context.Context, token string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sessions[token]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.sessions, token)
	return nil
}

func (r memSessions) DeleteByUserName(ctx context.Context, userName string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for token, s := range r.m.sessions {
		if s.UserName == userName {
			delete(r.m.sessions, token)
			n++
		}
	}
	return n, nil
}

type memPending struct{ m *memStore }

func (r memPending) Upsert(ctx context.Context, p *models.PendingRegistration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.upsertErr != nil {
		return r.m.upsertErr
	}
	r.m.pending[p.Email] = *p
	return nil
}

func (r memPending) FindForUpdate(ctx context.Context, email string) (*models.PendingRegistration, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.pending[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r memPending) Delete(ctx context.Context, email string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.pending, email)
	return nil
}

func (r memPending) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for email, p := range r.m.pending {
		if !p.ExpiresAt.After(before) {
			delete(r.m.pending, email)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct{ m *memStore }

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return memAccounts{f.m} }
func (f *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository        { return memSessions{f.m} }
func (f *fakeRepoManager) Pending(dbx.DBTX) pending.Repository          { return memPending{f.m} }

// passTx runs the unit of work directly; the fakes ignore the DBTX.
type passTx struct{}

func (passTx) RunInTx(ctx context.Context, fn dbx.TxFunc) error { return fn(ctx, nil) }

type fakeNotifier struct {
	mu    sync.Mutex
	codes map[string]string
	calls int
	err   error
}

func (n *fakeNotifier) SendOtp(ctx context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.err != nil {
		return n.err
	}
	if n.codes == nil {
		n.codes = map[string]string{}
	}
	n.codes[email] = code
	return nil
}

func (n *fakeNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 7 * 24 * time.Hour,
		OTPValidityDuration:          10 * time.Minute,
		PasswordHashAlgorithm:        "bcrypt",
		BcryptCost:                   bcrypt.MinCost,
	}
}

// newTestService returns a service over in-memory stores. The sqlmock pool
// is only there to satisfy the constructor.
func newTestService(t *testing.T) (*AccountService, *memStore, *fakeNotifier) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := newMemStore()
	n := &fakeNotifier{}
	s, err := NewAccountService(db, &fakeRepoManager{m: store}, n, logging.Nop(), testConfig())
	require.NoError(t, err)
	s.tx = passTx{}
	return s, store, n
}

func aliceInput() *RegisterInput {
	return &RegisterInput{
		Name:            "Alice",
		UserName:        "alice",
		Password:        "P@ss1",
		ConfirmPassword: "P@ss1",
		DateOfBirth:     time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Email:           "a@x.com",
	}
}

// registerVerified registers in and confirms it with the delivered code.
func registerVerified(t *testing.T, s *AccountService, n *fakeNotifier, in *RegisterInput) {
	t.Helper()
	require.NoError(t, s.Register(context.Background(), in))
	require.NoError(t, s.VerifyOtp(context.Background(), in.Email, n.code(in.Email)))
}

func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}
