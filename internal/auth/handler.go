package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/todolist/internal/store"
)

type registerForm struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Email     string `form:"email" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// RegisterPage は GET /register のハンドラーです。
func (m *Manager) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Notices": Notices(c),
	})
}

// Register は POST /register のハンドラーです。
// 登録に成功したユーザーはそのままログイン状態にします。
func (m *Manager) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		// 未入力の項目がある場合は状態を変えずにフォームを再表示する
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Notices": append(Notices(c), "All fields are required."),
		})
		return
	}

	existing, err := m.users.FindUserByEmail(c.Request.Context(), form.Email)
	if err != nil {
		m.renderServerError(c, "register.html", err)
		return
	}
	if existing != nil {
		Flash(c, "The provided email already exists, please login instead")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	hash, err := HashPassword(form.Password, m.cfg.BcryptCost)
	if err != nil {
		m.renderServerError(c, "register.html", err)
		return
	}

	user, err := m.users.CreateUser(c.Request.Context(), form.FirstName, form.LastName, form.Email, hash)
	if err != nil {
		// 一意制約が真実の源。事前チェックとすれ違った同時登録もここで同じ結果に落とす
		if errors.Is(err, store.ErrDuplicateEmail) {
			Flash(c, "The provided email already exists, please login instead")
			c.Redirect(http.StatusFound, "/login")
			return
		}
		m.renderServerError(c, "register.html", err)
		return
	}

	if err := m.EstablishSession(c, user); err != nil {
		m.renderServerError(c, "register.html", err)
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

// LoginPage は GET /login のハンドラーです。
func (m *Manager) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Notices": Notices(c),
	})
}

// Login は POST /login のハンドラーです。
func (m *Manager) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Notices": append(Notices(c), "All fields are required."),
		})
		return
	}

	ip := c.ClientIP()
	if retryAfter := m.checkLock(ip); retryAfter > 0 {
		c.HTML(http.StatusTooManyRequests, "login.html", gin.H{
			"Notices": append(Notices(c), "Too many login attempts. Please try again later."),
		})
		return
	}

	user, err := m.users.FindUserByEmail(c.Request.Context(), form.Email)
	if err != nil {
		m.renderServerError(c, "login.html", err)
		return
	}
	if user == nil {
		Flash(c, "Please register to use our services")
		c.Redirect(http.StatusFound, "/register")
		return
	}

	if !VerifyPassword(user.PasswordHash, form.Password) {
		m.recordFailure(ip)
		// パスワード誤りはログインページに留まる
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Notices": append(Notices(c), "Password entered is incorrect. Please try again."),
		})
		return
	}

	m.resetAttempts(ip)

	if err := m.EstablishSession(c, user); err != nil {
		m.renderServerError(c, "login.html", err)
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

// Logout は GET /logout のハンドラーです。
// /home は認証必須のため、実質的にログインページへ誘導されます。
func (m *Manager) Logout(c *gin.Context) {
	if err := m.ClearSession(c); err != nil {
		log.Printf("failed to clear session: %v", err)
	}
	c.Redirect(http.StatusFound, "/home")
}

// Root は GET / のハンドラーです。ログイン状態に応じて振り分けます。
func (m *Manager) Root(c *gin.Context) {
	user, err := m.CurrentUser(c)
	if err != nil || user == nil {
		m.redirectToLogin(c, "Please Login")
		return
	}
	c.Redirect(http.StatusFound, "/home")
}

func (m *Manager) renderServerError(c *gin.Context, template string, err error) {
	log.Printf("auth: %v", err)
	c.HTML(http.StatusInternalServerError, template, gin.H{
		"Notices": append(Notices(c), "Something went wrong. Please try again."),
	})
}
