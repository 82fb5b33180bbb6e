package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/service"
)

type focusPayload struct {
	ClientToken     string `json:"client_token"`
	DurationMinutes int    `json:"duration_minutes"`
	Date            string `json:"date"`
	Label           string `json:"label"`
	Note            string `json:"note"`
}

// ListFocusEntries 返回专注记录，支持 start/end 日期过滤
func (a *API) ListFocusEntries(c *gin.Context) {
	start, ok := parseOptionalDate(c.Query("start"), a.loc)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的开始日期")
		return
	}
	end, ok := parseOptionalDate(c.Query("end"), a.loc)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的结束日期")
		return
	}

	filter := service.FocusFilter{}
	if start != nil {
		filter.Start = *start
	}
	if end != nil {
		// 结束日期包含当天
		filter.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	entries, err := a.focus.List(currentActor(c), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取专注记录失败")
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, a.focusPayloadOf(entry))
	}
	c.JSON(http.StatusOK, gin.H{"entries": items})
}

// LogFocus 记录专注时段；重复的 client_token 返回已有记录
func (a *API) LogFocus(c *gin.Context) {
	var payload focusPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	date, ok := parseOptionalDate(payload.Date, a.loc)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	input := service.FocusInput{
		ClientToken:     payload.ClientToken,
		DurationMinutes: payload.DurationMinutes,
		Label:           payload.Label,
		Note:            payload.Note,
	}
	if date != nil {
		input.Date = *date
	}

	actor := currentActor(c)
	entry, created, err := a.focus.Log(actor, input)
	if err != nil {
		handleFocusError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"entry":    a.focusPayloadOf(*entry),
		"created":  created,
		"unlocked": a.recompute(c, actor),
	})
}

// DeleteFocusEntry 删除专注记录
func (a *API) DeleteFocusEntry(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的记录ID")
		return
	}

	actor := currentActor(c)
	if err := a.focus.Delete(actor, id); err != nil {
		handleFocusError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "unlocked": a.recompute(c, actor)})
}

func (a *API) focusPayloadOf(entry db.FocusEntry) gin.H {
	return gin.H{
		"id":               entry.ID,
		"client_token":     entry.ClientToken,
		"duration_minutes": entry.DurationMinutes,
		"date":             entry.Date.In(a.loc).Format(dateFormat),
		"label":            entry.Label,
		"note":             entry.Note,
	}
}

func handleFocusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFocusEntryNotFound):
		respondError(c, http.StatusNotFound, "专注记录不存在")
	case errors.Is(err, service.ErrFocusInvalidDuration):
		respondError(c, http.StatusBadRequest, "专注时长需在 1 到 1440 分钟之间")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
