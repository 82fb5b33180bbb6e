package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型，Username 即成就系统中的 actor
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// ErrUserExists 用户名已被占用时返回
var ErrUserExists = errors.New("user already exists")

// EnsureUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
func EnsureUser(gdb *gorm.DB, username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		_, err = CreateUser(gdb, trimmedUser, trimmedPassword)
		return err
	}

	return nil
}

// CreateUser 使用 bcrypt 哈希密码创建用户，用户名重复时返回 ErrUserExists。
func CreateUser(gdb *gorm.DB, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, errors.New("username and password are required")
	}

	var count int64
	if err := gdb.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{Username: username, Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword 校验明文密码与存储的哈希是否匹配
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
