package db

import (
	"strings"

	"gorm.io/gorm"
)

const maxDerivedTitleRunes = 80

// Folder 即笔记本，Owner 为所属用户名
type Folder struct {
	gorm.Model
	Owner string `gorm:"size:64;index;not null"`
	Name  string `gorm:"not null"`
	Color string
	Notes []Note
	// NoteCount 仅在列表查询时填充
	NoteCount int64 `gorm:"->;-:migration"`
}

// Note 定义了笔记模型
// FolderID 为空表示未归档；Tags 随笔记级联删除
type Note struct {
	gorm.Model
	Owner    string `gorm:"size:64;index;not null"`
	Title    string
	Content  string `gorm:"type:text"`
	FolderID *uint  `gorm:"index"`
	Folder   *Folder
	Tags     []NoteTag `gorm:"constraint:OnDelete:CASCADE"`
}

// NoteTag 记录笔记上的标签，Name 统一为小写
type NoteTag struct {
	ID     uint   `gorm:"primaryKey"`
	NoteID uint   `gorm:"index;uniqueIndex:idx_note_tag_unique"`
	Owner  string `gorm:"size:64;index"`
	Name   string `gorm:"size:64;uniqueIndex:idx_note_tag_unique"`
}

// TableName 指定自定义表名。
func (NoteTag) TableName() string {
	return "note_tags"
}

// DeriveTitleFromContent 取正文首个非空行作为标题，去掉 Markdown 标题符号与强调标记
func DeriveTitleFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		trimmed = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		trimmed = strings.Trim(trimmed, "*_")
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == "" {
			continue
		}
		if runes := []rune(trimmed); len(runes) > maxDerivedTitleRunes {
			trimmed = string(runes[:maxDerivedTitleRunes])
		}
		return trimmed
	}
	return ""
}
