package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/service"
)

type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"` // 2006-01-02，可选
}

// ListTasks 返回任务列表，status 支持 open/done
func (a *API) ListTasks(c *gin.Context) {
	tasks, err := a.tasks.List(currentActor(c), service.TaskFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取任务列表失败")
		return
	}

	items := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskPayloadOf(task))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

// CreateTask 创建任务并重算成就
func (a *API) CreateTask(c *gin.Context) {
	input, ok := a.parseTaskInput(c)
	if !ok {
		return
	}

	actor := currentActor(c)
	task, err := a.tasks.Create(actor, input)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"task":     taskPayloadOf(*task),
		"unlocked": a.recompute(c, actor),
	})
}

// UpdateTask 更新任务内容
func (a *API) UpdateTask(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的任务ID")
		return
	}

	input, ok := a.parseTaskInput(c)
	if !ok {
		return
	}

	actor := currentActor(c)
	task, err := a.tasks.Update(actor, id, input)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task":     taskPayloadOf(*task),
		"unlocked": a.recompute(c, actor),
	})
}

// CompleteTask 标记任务完成并重算成就
func (a *API) CompleteTask(c *gin.Context) {
	a.setTaskCompleted(c, true)
}

// ReopenTask 重新打开任务，已解锁的成就保持不变
func (a *API) ReopenTask(c *gin.Context) {
	a.setTaskCompleted(c, false)
}

func (a *API) setTaskCompleted(c *gin.Context, completed bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的任务ID")
		return
	}

	actor := currentActor(c)
	task, err := a.tasks.SetCompleted(actor, id, completed)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":     taskPayloadOf(*task),
		"unlocked": a.recompute(c, actor),
	})
}

// DeleteTask 删除任务
func (a *API) DeleteTask(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的任务ID")
		return
	}

	actor := currentActor(c)
	if err := a.tasks.Delete(actor, id); err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "unlocked": a.recompute(c, actor)})
}

func (a *API) parseTaskInput(c *gin.Context) (service.TaskInput, bool) {
	var payload taskPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return service.TaskInput{}, false
	}

	dueDate, ok := parseOptionalDate(payload.DueDate, a.loc)
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的截止日期")
		return service.TaskInput{}, false
	}

	return service.TaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    payload.Priority,
		DueDate:     dueDate,
	}, true
}

func taskPayloadOf(task db.Task) gin.H {
	item := gin.H{
		"id":           task.ID,
		"title":        task.Title,
		"description":  task.Description,
		"priority":     task.Priority,
		"completed":    task.IsCompleted(),
		"completed_at": formatOptionalTime(task.CompletedAt),
	}
	if task.DueDate != nil {
		item["due_date"] = task.DueDate.Format(dateFormat)
	}
	return item
}

func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(c, http.StatusNotFound, "任务不存在")
	case errors.Is(err, service.ErrTaskTitleRequired):
		respondError(c, http.StatusBadRequest, "任务标题不能为空")
	case errors.Is(err, service.ErrTaskInvalidPriority):
		respondError(c, http.StatusBadRequest, "优先级无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
