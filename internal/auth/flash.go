package auth

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/todolist/internal/store"
)

// Flash は次に描画されるページで一度だけ表示される通知を積みます。
func Flash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
}

// Notices は積まれた通知を取り出して返します。取り出した通知は消費されます。
func Notices(c *gin.Context) []string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	// Flashes は読み出しでセッションを変更するため保存が必要
	_ = session.Save()

	notices := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			notices = append(notices, s)
		}
	}
	return notices
}

// CSRFToken は現在のセッションに紐づくフォーム用トークンを返します。
func CSRFToken(c *gin.Context) string {
	session := sessions.Default(c)
	token, _ := session.Get(sessionKeyCSRF).(string)
	return token
}

// UserFrom は RequireLogin が解決したログイン済みユーザーを返します。
func UserFrom(c *gin.Context) *store.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*store.User); ok {
			return user
		}
	}
	return nil
}
