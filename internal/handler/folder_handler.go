package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/db"
	"github.com/pixelpages/internal/service"
)

type folderPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ListFolders 返回文件夹及笔记数量
func (a *API) ListFolders(c *gin.Context) {
	folders, err := a.folders.List(currentActor(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取文件夹失败")
		return
	}

	items := make([]gin.H, 0, len(folders))
	for _, folder := range folders {
		items = append(items, folderPayloadOf(folder))
	}
	c.JSON(http.StatusOK, gin.H{"folders": items})
}

// CreateFolder 创建文件夹并重算成就
func (a *API) CreateFolder(c *gin.Context) {
	var payload folderPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	actor := currentActor(c)
	folder, err := a.folders.Create(actor, service.FolderInput{Name: payload.Name, Color: payload.Color})
	if err != nil {
		handleFolderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"folder":   folderPayloadOf(*folder),
		"unlocked": a.recompute(c, actor),
	})
}

// UpdateFolder 重命名文件夹
func (a *API) UpdateFolder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文件夹ID")
		return
	}

	var payload folderPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	actor := currentActor(c)
	folder, err := a.folders.Update(actor, id, service.FolderInput{Name: payload.Name, Color: payload.Color})
	if err != nil {
		handleFolderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"folder":   folderPayloadOf(*folder),
		"unlocked": a.recompute(c, actor),
	})
}

// DeleteFolder 删除文件夹，笔记保留
func (a *API) DeleteFolder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文件夹ID")
		return
	}

	actor := currentActor(c)
	if err := a.folders.Delete(actor, id); err != nil {
		handleFolderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "unlocked": a.recompute(c, actor)})
}

func folderPayloadOf(folder db.Folder) gin.H {
	return gin.H{
		"id":         folder.ID,
		"name":       folder.Name,
		"color":      folder.Color,
		"note_count": folder.NoteCount,
	}
}

func handleFolderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFolderNotFound):
		respondError(c, http.StatusNotFound, "文件夹不存在")
	case errors.Is(err, service.ErrFolderNameRequired):
		respondError(c, http.StatusBadRequest, "文件夹名称不能为空")
	case errors.Is(err, service.ErrFolderExists):
		respondError(c, http.StatusConflict, "文件夹已存在")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
