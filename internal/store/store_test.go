package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return st
}

func TestCreateUserAndFind(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "Alice", "Smith", "alice@x.com", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected a generated user id")
	}

	byEmail, err := st.FindUserByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail returned error: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("unexpected user by email: %#v", byEmail)
	}

	byID, err := st.FindUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindUserByID returned error: %v", err)
	}
	if byID == nil || byID.Email != "alice@x.com" {
		t.Fatalf("unexpected user by id: %#v", byID)
	}
}

func TestFindUserAbsent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, err := st.FindUserByEmail(ctx, "nobody@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for unknown email, got %#v", user)
	}

	user, err = st.FindUserByID(ctx, 99)
	if err != nil {
		t.Fatalf("FindUserByID returned error: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for unknown id, got %#v", user)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.CreateUser(ctx, "Alice", "Smith", "alice@x.com", "hash-1"); err != nil {
		t.Fatalf("first CreateUser returned error: %v", err)
	}

	_, err := st.CreateUser(ctx, "Alice", "Jones", "alice@x.com", "hash-2")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// 2回目の登録でユーザーが増えていないこと
	user, err := st.FindUserByEmail(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail returned error: %v", err)
	}
	if user == nil || user.LastName != "Smith" {
		t.Fatalf("expected the original user to survive, got %#v", user)
	}
}

func TestTasksByOwnerIsolation(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, "Alice", "Smith", "alice@x.com", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	bob, err := st.CreateUser(ctx, "Bob", "Brown", "bob@x.com", "hash-2")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	if _, err := st.CreateTask(ctx, "Buy milk", "2024-01-01", alice.ID); err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if _, err := st.CreateTask(ctx, "Walk dog", "2024-01-02", alice.ID); err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	aliceTasks, err := st.TasksByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("TasksByOwner returned error: %v", err)
	}
	if len(aliceTasks) != 2 {
		t.Fatalf("expected 2 tasks for alice, got %d", len(aliceTasks))
	}
	// 登録順で返ること
	if aliceTasks[0].Content != "Buy milk" || aliceTasks[1].Content != "Walk dog" {
		t.Fatalf("unexpected task order: %#v", aliceTasks)
	}

	bobTasks, err := st.TasksByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("TasksByOwner returned error: %v", err)
	}
	if len(bobTasks) != 0 {
		t.Fatalf("expected no tasks for bob, got %#v", bobTasks)
	}
}

func TestDeleteTask(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, "Alice", "Smith", "alice@x.com", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	task, err := st.CreateTask(ctx, "Buy milk", "2024-01-01", alice.ID)
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	if err := st.DeleteTask(ctx, task.ID, alice.ID); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	tasks, err := st.TasksByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("TasksByOwner returned error: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list after delete, got %#v", tasks)
	}

	// 既に消えたIDの削除は ErrTaskNotFound
	if err := st.DeleteTask(ctx, task.ID, alice.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteTaskForeignOwner(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, "Alice", "Smith", "alice@x.com", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	bob, err := st.CreateUser(ctx, "Bob", "Brown", "bob@x.com", "hash-2")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	task, err := st.CreateTask(ctx, "Buy milk", "2024-01-01", alice.ID)
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	// 他人のアイテムは削除できない
	if err := st.DeleteTask(ctx, task.ID, bob.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for foreign owner, got %v", err)
	}

	found, err := st.FindTaskByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindTaskByID returned error: %v", err)
	}
	if found == nil || found.OwnerID != alice.ID {
		t.Fatalf("expected the task to survive, got %#v", found)
	}
}
