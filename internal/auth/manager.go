package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/todolist/internal/config"
	"github.com/yourusername/todolist/internal/store"
)

const (
	SessionCookieName    = "todo_session"
	sessionKeyUser       = "auth_user"
	sessionKeyIssuedAt   = "issued_at"
	sessionKeyLastActive = "last_activity"
	sessionKeyCSRF       = "csrf_token"

	csrfHeader = "X-CSRF-Token"
	csrfField  = "csrf_token"
)

var (
	loginWindow      = 15 * time.Minute
	lockDuration     = 10 * time.Minute
	maxLoginAttempts = 5
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーを共有するためのキーです。
const ContextUserKey = "auth.user"

// UserStore は認証に必要なユーザー永続化の操作を定義します。
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*store.User, error)
	FindUserByID(ctx context.Context, id uint) (*store.User, error)
	CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (*store.User, error)
}

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	cfg      *config.Config
	users    UserStore
	lock     sync.Mutex
	attempts map[string]*attemptState
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, users UserStore) *Manager {
	return &Manager{
		cfg:      cfg,
		users:    users,
		attempts: make(map[string]*attemptState),
	}
}

// EstablishSession はユーザーをログイン状態にします。
// セッションにはユーザーIDと発行時刻、CSRFトークンのみを保存します。
func (m *Manager) EstablishSession(c *gin.Context, user *store.User) error {
	token, err := generateToken()
	if err != nil {
		return err
	}

	session := sessions.Default(c)
	now := time.Now()
	session.Set(sessionKeyUser, user.ID)
	session.Set(sessionKeyIssuedAt, now.Unix())
	session.Set(sessionKeyLastActive, now.Unix())
	session.Set(sessionKeyCSRF, token)
	return session.Save()
}

// ClearSession はセッションを破棄し、匿名状態に戻します。
func (m *Manager) ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// CurrentUser はアクティブなセッションに紐づくユーザーを返します。
// 匿名の場合やアカウントが存在しない場合は (nil, nil) を返します。
func (m *Manager) CurrentUser(c *gin.Context) (*store.User, error) {
	session := sessions.Default(c)
	id, ok := session.Get(sessionKeyUser).(uint)
	if !ok {
		return nil, nil
	}
	return m.users.FindUserByID(c.Request.Context(), id)
}

func (m *Manager) checkLock(ip string) time.Duration {
	m.lock.Lock()
	defer m.lock.Unlock()

	state, ok := m.attempts[ip]
	if !ok {
		return 0
	}
	now := time.Now()
	if now.After(state.lockedUntil) {
		return 0
	}
	return time.Until(state.lockedUntil)
}

func (m *Manager) recordFailure(ip string) int {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := time.Now()
	state, ok := m.attempts[ip]
	if !ok || now.Sub(state.firstAttempt) > loginWindow {
		state = &attemptState{firstAttempt: now}
		m.attempts[ip] = state
	}

	state.count++
	if state.count >= maxLoginAttempts {
		state.lockedUntil = now.Add(lockDuration)
		state.count = maxLoginAttempts
	}

	remaining := maxLoginAttempts - state.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (m *Manager) resetAttempts(ip string) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.attempts, ip)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
