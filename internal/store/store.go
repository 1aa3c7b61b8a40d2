// Package store はユーザーとToDoアイテムの永続化を提供します。
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrDuplicateEmail は既に登録済みのメールアドレスで登録しようとした場合のエラーです。
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrTaskNotFound は対象のToDoアイテムが存在しないか、所有者が異なる場合のエラーです。
	ErrTaskNotFound = errors.New("task not found")
)

// User はアプリケーションの利用者を表します。
// PasswordHash には bcrypt のハッシュ文字列のみを保存し、平文は一切保持しません。
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:300;not null"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	Tasks        []Task `gorm:"foreignKey:OwnerID"`
}

// TableName はユーザーテーブル名を返します。
func (User) TableName() string { return "users" }

// Task はユーザーが所有するToDoアイテムを表します。
type Task struct {
	ID      uint   `gorm:"primaryKey"`
	Content string `gorm:"size:300;not null"`
	Date    string `gorm:"size:300;not null"`
	OwnerID uint   `gorm:"not null;index"`
}

// TableName はToDoテーブル名を返します。
func (Task) TableName() string { return "todolist" }

// Store はSQLiteデータベースへのアクセスをまとめた構造体です。
type Store struct {
	db *gorm.DB
}

// Open はデータベースを開き、スキーマを適用した Store を返します。
// メールアドレスの一意性はユニークインデックスで保証します（事前チェックは画面表示用の最適化にすぎません）。
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&User{}, &Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// FindUserByEmail はメールアドレスでユーザーを検索します。
// 見つからない場合は (nil, nil) を返します。
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByID はIDでユーザーを検索します。セッションの識別子解決に使用します。
// 見つからない場合は (nil, nil) を返します。
func (s *Store) FindUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateUser は新規ユーザーを作成します。
// メールアドレスが重複している場合は ErrDuplicateEmail を返します。
func (s *Store) CreateUser(ctx context.Context, firstName, lastName, email, passwordHash string) (*User, error) {
	user := User{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &user, nil
}

// TasksByOwner は指定ユーザーが所有するToDoアイテムを登録順で返します。
func (s *Store) TasksByOwner(ctx context.Context, ownerID uint) ([]Task, error) {
	var tasks []Task
	if err := s.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask は指定ユーザーを所有者とするToDoアイテムを作成します。
func (s *Store) CreateTask(ctx context.Context, content, date string, ownerID uint) (*Task, error) {
	task := Task{
		Content: content,
		Date:    date,
		OwnerID: ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindTaskByID はIDでToDoアイテムを検索します。
// 見つからない場合は (nil, nil) を返します。
func (s *Store) FindTaskByID(ctx context.Context, id uint) (*Task, error) {
	var task Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// DeleteTask は所有者が一致する場合にのみToDoアイテムを削除します。
// 対象が存在しない場合や所有者が異なる場合は ErrTaskNotFound を返します。
func (s *Store) DeleteTask(ctx context.Context, id, ownerID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}
