package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireLogin はセッションを検証するミドルウェアを返します。
// 匿名アクセスや期限切れセッションは通知付きでログインページへリダイレクトします。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, ok := session.Get(sessionKeyUser).(uint)
		if !ok {
			m.redirectToLogin(c, "Please Login")
			return
		}

		now := time.Now()
		issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
		lastActive := readUnix(session.Get(sessionKeyLastActive))

		if issuedAt.IsZero() || now.Sub(issuedAt) > m.cfg.SessionMaxAge {
			session.Clear()
			_ = session.Save()
			m.redirectToLogin(c, "Your session has expired. Please login again.")
			return
		}

		if lastActive.IsZero() || now.Sub(lastActive) > m.cfg.SessionIdleTimeout {
			session.Clear()
			_ = session.Save()
			m.redirectToLogin(c, "Your session has expired. Please login again.")
			return
		}

		user, err := m.users.FindUserByID(c.Request.Context(), id)
		if err != nil || user == nil {
			// アカウントが見つからないセッションは破棄する
			session.Clear()
			_ = session.Save()
			m.redirectToLogin(c, "Please Login")
			return
		}

		session.Set(sessionKeyLastActive, now.Unix())
		_ = session.Save()
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// VerifyCSRF はフォーム送信のトークンを検証するミドルウェアです。
// トークンはフォームの隠しフィールドまたは X-CSRF-Token ヘッダーで受け取ります。
func (m *Manager) VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		session := sessions.Default(c)
		expected, ok := session.Get(sessionKeyCSRF).(string)
		if !ok || expected == "" {
			m.redirectToLogin(c, "Please Login")
			return
		}

		received := c.PostForm(csrfField)
		if received == "" {
			received = c.GetHeader(csrfHeader)
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
			Flash(c, "Your form has expired. Please try again.")
			c.Redirect(http.StatusFound, "/home")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *Manager) redirectToLogin(c *gin.Context, message string) {
	Flash(c, message)
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
