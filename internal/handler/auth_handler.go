package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/db"
)

const (
	sessionUsernameKey = "username"
	actorContextKey    = "actor"
)

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func readCredentials(c *gin.Context) (credentialsPayload, bool) {
	var payload credentialsPayload
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return payload, false
		}
	} else {
		payload.Username = c.PostForm("username")
		payload.Password = c.PostForm("password")
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "用户名和密码不能为空")
		return payload, false
	}
	return payload, true
}

// Register 创建新用户并直接登录
func (a *API) Register(c *gin.Context) {
	payload, ok := readCredentials(c)
	if !ok {
		return
	}

	user, err := db.CreateUser(a.db, payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, db.ErrUserExists) {
			respondError(c, http.StatusConflict, "用户名已存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "注册失败")
		return
	}

	if !saveSession(c, user.Username) {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": user.Username})
}

// Login 校验用户名密码并写入会话
func (a *API) Login(c *gin.Context) {
	payload, ok := readCredentials(c)
	if !ok {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", payload.Username).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}
	if !user.CheckPassword(payload.Password) {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if !saveSession(c, user.Username) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 清空会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

// Me 返回当前登录用户
func (a *API) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": currentActor(c)})
}

// AuthRequired 是一个简单的认证中间件，会话中的用户名即 actor
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, _ := session.Get(sessionUsernameKey).(string)
		if strings.TrimSpace(username) == "" {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Set(actorContextKey, username)
		c.Next()
	}
}

func saveSession(c *gin.Context, username string) bool {
	session := sessions.Default(c)
	session.Set(sessionUsernameKey, username)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return false
	}
	return true
}

func currentActor(c *gin.Context) string {
	return c.GetString(actorContextKey)
}
