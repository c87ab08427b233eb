package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/config"
	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/user"
)

const (
	// SessionCookieName はセッションクッキーの名前です。
	SessionCookieName = "member_session"

	sessionKeyAuthenticated = "authenticated"
	sessionKeyUsername      = "username"
	sessionKeyIssuedAt      = "issued_at"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// UserStore は認証が必要とするユーザー永続化の操作です。
type UserStore interface {
	Insert(ctx context.Context, u *user.User) (string, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	cfg    *config.Config
	users  UserStore
	hasher *Hasher
	policy Policy
	logger *log.Logger
	now    func() time.Time
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, users UserStore, hasher *Hasher, logger *log.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		users:  users,
		hasher: hasher,
		policy: PolicyFromConfig(cfg),
		logger: logger,
		now:    time.Now,
	}
}

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds(cfg *config.Config) int {
	return int(cfg.SessionTTL().Seconds())
}

// SubmitUser は POST /submitUser のハンドラーです。
// 検証を通過した登録だけがセッションを authenticated にできます。
func (m *Manager) SubmitUser(c *gin.Context) {
	form, err := m.validateSignUp(c)
	if err != nil {
		m.logger.Printf("sign-up rejected: %v", err)
		c.Redirect(http.StatusFound, "/signUp?invalidCred=1")
		return
	}

	digest, err := m.hasher.Hash(form.Password)
	if err != nil {
		m.fail(c, "hash password", err)
		return
	}

	u := &user.User{Username: form.Username, Email: form.Email, PasswordHash: digest}
	if _, err := m.users.Insert(c.Request.Context(), u); err != nil {
		m.fail(c, "insert user", err)
		return
	}
	m.logger.Printf("registered user %q", form.Username)

	if err := m.openSession(c, form.Username); err != nil {
		m.fail(c, "save session", err)
		return
	}
	c.Redirect(http.StatusFound, "/members")
}

// LoggingIn は POST /loggingin のハンドラーです。
// 0件一致と複数件一致はどちらも「アカウントなし」として扱います。
func (m *Manager) LoggingIn(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		m.logger.Printf("login rejected: %v", &ValidationError{Fields: bindingFields(err)})
		c.Redirect(http.StatusPermanentRedirect, "/login?invalidEmail=1")
		return
	}

	found, err := m.users.FindByEmail(c.Request.Context(), form.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrAmbiguous) {
			m.logger.Printf("login failed: %v", err)
			c.Redirect(http.StatusPermanentRedirect, "/login?noAccount=1")
			return
		}
		m.fail(c, "find user", err)
		return
	}

	if !m.hasher.Verify(form.Password, found.PasswordHash) {
		m.logger.Printf("login failed for user %q: password mismatch", found.Username)
		c.Redirect(http.StatusPermanentRedirect, "/login?invalidPassword=1")
		return
	}

	if err := m.openSession(c, found.Username); err != nil {
		m.fail(c, "save session", err)
		return
	}
	c.Redirect(http.StatusFound, "/members")
}

// Logout は POST /logout のハンドラーです。セッションレコードを破棄します。
func (m *Manager) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		m.fail(c, "destroy session", err)
		return
	}
	c.Redirect(http.StatusFound, "/?loggedOut=1")
}

// RequireSession は認証済みセッションを検証するミドルウェアを返します。
// リダイレクトを発行したら後続のハンドラーには進ませず、その場で打ち切ります。
func (m *Manager) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		authenticated, _ := session.Get(sessionKeyAuthenticated).(bool)
		if !authenticated {
			m.redirectNoSession(c)
			return
		}

		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		if issuedAt.IsZero() || m.now().Sub(issuedAt) > m.cfg.SessionTTL() {
			// 期限切れはセッションなしと同じ扱い
			session.Clear()
			_ = session.Save()
			m.redirectNoSession(c)
			return
		}

		if name, ok := session.Get(sessionKeyUsername).(string); ok {
			c.Set(ContextUserKey, name)
		}
		c.Next()
	}
}

func (m *Manager) redirectNoSession(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login?noSession=1")
	c.Abort()
}

// validateSignUp はスキーマ検証とポリシー検証をまとめて行います。
func (m *Manager) validateSignUp(c *gin.Context) (*SignUpForm, error) {
	var form SignUpForm
	if err := c.ShouldBind(&form); err != nil {
		return nil, &ValidationError{Fields: bindingFields(err)}
	}
	if fields := m.policy.CheckSignUp(&form); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &form, nil
}

// openSession はセッションを authenticated 状態で保存します。
// authenticated を立てるコードパスは SubmitUser と LoggingIn から呼ばれるここだけです。
func (m *Manager) openSession(c *gin.Context, username string) error {
	session := sessions.Default(c)
	session.Set(sessionKeyAuthenticated, true)
	session.Set(sessionKeyUsername, username)
	session.Set(sessionKeyIssuedAt, m.now().Unix())
	session.Options(sessions.Options{
		Path:     "/",
		MaxAge:   SessionMaxAgeSeconds(m.cfg),
		HttpOnly: true,
	})
	return session.Save()
}

// fail はストレージ等の内部エラーを5xxとして返します。リトライは行いません。
func (m *Manager) fail(c *gin.Context, op string, err error) {
	m.logger.Printf("%s failed: %v", op, err)
	c.String(http.StatusInternalServerError, "Internal server error")
	c.Abort()
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
