package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/service"
)

type notePayload struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	FolderID *uint    `json:"folder_id"`
	Tags     []string `json:"tags"`
}

// ListNotes 返回笔记列表，支持 folder_id/tag/search 过滤
func (a *API) ListNotes(c *gin.Context) {
	folderID, ok := parseOptionalUint(c.Query("folder_id"))
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的文件夹ID")
		return
	}

	notes, err := a.notes.List(currentActor(c), service.NoteFilter{
		FolderID: folderID,
		Tag:      c.Query("tag"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取笔记列表失败")
		return
	}

	items := make([]gin.H, 0, len(notes))
	for _, note := range notes {
		items = append(items, notePayloadOf(note))
	}
	c.JSON(http.StatusOK, gin.H{"notes": items})
}

// GetNote 返回单条笔记
func (a *API) GetNote(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的笔记ID")
		return
	}

	note, err := a.notes.Get(currentActor(c), id)
	if err != nil {
		handleNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": notePayloadOf(*note)})
}

// PreviewNote 将笔记 Markdown 渲染为经过清洗的 HTML
func (a *API) PreviewNote(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的笔记ID")
		return
	}

	note, err := a.notes.Get(currentActor(c), id)
	if err != nil {
		handleNoteError(c, err)
		return
	}

	rendered, err := a.renderMarkdown(note.Content)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染笔记失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": note.ID, "title": note.Title, "html": rendered})
}

// CreateNote 创建笔记并重算成就
func (a *API) CreateNote(c *gin.Context) {
	var payload notePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	actor := currentActor(c)
	note, err := a.notes.Create(actor, payload.toInput())
	if err != nil {
		handleNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"note":     notePayloadOf(*note),
		"xp":       service.NoteXP(*note),
		"unlocked": a.recompute(c, actor),
	})
}

// UpdateNote 更新笔记并重算成就
func (a *API) UpdateNote(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的笔记ID")
		return
	}

	var payload notePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	actor := currentActor(c)
	note, err := a.notes.Update(actor, id, payload.toInput())
	if err != nil {
		handleNoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note":     notePayloadOf(*note),
		"unlocked": a.recompute(c, actor),
	})
}

// DeleteNote 删除笔记
func (a *API) DeleteNote(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的笔记ID")
		return
	}

	actor := currentActor(c)
	if err := a.notes.Delete(actor, id); err != nil {
		handleNoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "unlocked": a.recompute(c, actor)})
}

// ListTags 返回标签使用情况
func (a *API) ListTags(c *gin.Context) {
	usages, err := a.notes.Tags(currentActor(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取标签失败")
		return
	}

	items := make([]gin.H, 0, len(usages))
	for _, usage := range usages {
		items = append(items, gin.H{"name": usage.Name, "count": usage.Count})
	}
	c.JSON(http.StatusOK, gin.H{"tags": items})
}

func (a *API) renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := a.markdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return a.sanitizer.Sanitize(buf.String()), nil
}

func (p notePayload) toInput() service.NoteInput {
	return service.NoteInput{
		Title:    p.Title,
		Content:  p.Content,
		FolderID: p.FolderID,
		Tags:     p.Tags,
	}
}

func notePayloadOf(note db.Note) gin.H {
	tags := make([]string, 0, len(note.Tags))
	for _, tag := range note.Tags {
		tags = append(tags, tag.Name)
	}

	return gin.H{
		"id":         note.ID,
		"title":      note.Title,
		"content":    note.Content,
		"folder_id":  note.FolderID,
		"tags":       tags,
		"word_count": service.CountWords(note.Content),
		"created_at": note.CreatedAt.Format(time.RFC3339),
		"updated_at": note.UpdatedAt.Format(time.RFC3339),
	}
}

func handleNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		respondError(c, http.StatusNotFound, "笔记不存在")
	case errors.Is(err, service.ErrNoteEmpty):
		respondError(c, http.StatusBadRequest, "标题和内容不能同时为空")
	case errors.Is(err, service.ErrFolderNotFound):
		respondError(c, http.StatusBadRequest, "文件夹不存在")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
