// Package todo はToDoアイテムの一覧・作成・削除のHTTPハンドラーを提供します。
package todo

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/todolist/internal/auth"
	"github.com/yourusername/todolist/internal/store"
)

// TaskStore はハンドラーが必要とするToDoアイテム永続化の操作を定義します。
type TaskStore interface {
	TasksByOwner(ctx context.Context, ownerID uint) ([]store.Task, error)
	CreateTask(ctx context.Context, content, date string, ownerID uint) (*store.Task, error)
	DeleteTask(ctx context.Context, id, ownerID uint) error
}

type taskForm struct {
	Content string `form:"content" binding:"required"`
	Date    string `form:"date" binding:"required"`
}

// HomeHandler は GET /home のハンドラーを返します。
// ログイン中のユーザーが所有するToDoアイテムのみを表示します。
func HomeHandler(svc TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.UserFrom(c)
		renderHome(c, svc, user, auth.Notices(c))
	}
}

// CreateTaskHandler は POST /home のハンドラーを返します。
func CreateTaskHandler(svc TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.UserFrom(c)

		var form taskForm
		if err := c.ShouldBind(&form); err != nil {
			// 未入力の項目がある場合は状態を変えずに一覧を再表示する
			renderHome(c, svc, user, append(auth.Notices(c), "Content and date are both required."))
			return
		}

		if _, err := svc.CreateTask(c.Request.Context(), form.Content, form.Date, user.ID); err != nil {
			log.Printf("todo: failed to create task: %v", err)
			renderHome(c, svc, user, append(auth.Notices(c), "Something went wrong. Please try again."))
			return
		}

		c.Redirect(http.StatusFound, "/home")
	}
}

// DeleteTaskHandler は GET /deleteToDoListItem/:id のハンドラーを返します。
// 削除は所有者本人のアイテムに限られ、対象が存在しない場合も一覧へ戻るだけです。
func DeleteTaskHandler(svc TaskStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.UserFrom(c)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.Redirect(http.StatusFound, "/home")
			return
		}

		if err := svc.DeleteTask(c.Request.Context(), uint(id), user.ID); err != nil {
			if !errors.Is(err, store.ErrTaskNotFound) {
				log.Printf("todo: failed to delete task %d: %v", id, err)
			}
			// 存在しないIDや他人のアイテムは黙って一覧へ戻す
		}

		c.Redirect(http.StatusFound, "/home")
	}
}

func renderHome(c *gin.Context, svc TaskStore, user *store.User, notices []string) {
	tasks, err := svc.TasksByOwner(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("todo: failed to list tasks: %v", err)
		c.HTML(http.StatusInternalServerError, "index.html", gin.H{
			"User":      user,
			"Tasks":     nil,
			"CSRFToken": auth.CSRFToken(c),
			"Notices":   append(auth.Notices(c), "Something went wrong. Please try again."),
		})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"User":      user,
		"Tasks":     tasks,
		"CSRFToken": auth.CSRFToken(c),
		"Notices":   notices,
	})
}
