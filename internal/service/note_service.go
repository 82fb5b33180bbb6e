package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
)

const maxTagLength = 64

var (
	// ErrNoteNotFound 笔记不存在或不属于当前用户
	ErrNoteNotFound = errors.New("note not found")
	// ErrNoteEmpty 标题与正文均为空
	ErrNoteEmpty = errors.New("note title or content is required")
)

// NoteService 负责笔记的增删改查
type NoteService struct {
	db *gorm.DB
}

// NoteInput 定义创建/更新笔记时可配置字段
type NoteInput struct {
	Title    string
	Content  string
	FolderID *uint
	Tags     []string
}

// NoteFilter 描述列表过滤条件
type NoteFilter struct {
	FolderID *uint
	Tag      string
	Search   string
}

// NewNoteService 构造 NoteService
func NewNoteService(gdb *gorm.DB) *NoteService {
	return &NoteService{db: gdb}
}

// List 返回用户的笔记，按更新时间倒序
func (s *NoteService) List(owner string, filter NoteFilter) ([]db.Note, error) {
	var notes []db.Note

	query := s.db.Model(&db.Note{}).Preload("Tags").Where("notes.owner = ?", owner)

	if filter.FolderID != nil {
		query = query.Where("notes.folder_id = ?", *filter.FolderID)
	}
	if tag := normalizeTag(filter.Tag); tag != "" {
		query = query.Where("EXISTS (SELECT 1 FROM note_tags WHERE note_tags.note_id = notes.id AND note_tags.name = ?)", tag)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		query = query.Where("notes.title LIKE ? OR notes.content LIKE ?", like, like)
	}

	if err := query.Order("notes.updated_at DESC").Order("notes.id DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Get 根据 ID 获取笔记
func (s *NoteService) Get(owner string, id uint) (*db.Note, error) {
	var note db.Note
	if err := s.db.Preload("Tags").Where("owner = ?", owner).First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &note, nil
}

// Create 新建笔记，标题为空时从正文推导
func (s *NoteService) Create(owner string, input NoteInput) (*db.Note, error) {
	if err := s.validate(owner, input); err != nil {
		return nil, err
	}

	note := db.Note{
		Owner:    owner,
		Title:    resolveNoteTitle(input),
		Content:  input.Content,
		FolderID: input.FolderID,
		Tags:     buildNoteTags(owner, input.Tags),
	}

	if err := s.db.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &note, nil
}

// Update 更新笔记内容并整体替换标签
func (s *NoteService) Update(owner string, id uint, input NoteInput) (*db.Note, error) {
	if err := s.validate(owner, input); err != nil {
		return nil, err
	}

	existing, err := s.Get(owner, id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		existing.Title = resolveNoteTitle(input)
		existing.Content = input.Content
		existing.FolderID = input.FolderID
		existing.Folder = nil
		existing.Tags = nil

		if err := tx.Omit("Tags", "Folder").Save(existing).Error; err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		if err := tx.Where("note_id = ?", existing.ID).Delete(&db.NoteTag{}).Error; err != nil {
			return fmt.Errorf("clear note tags: %w", err)
		}

		tags := buildNoteTags(owner, input.Tags)
		for i := range tags {
			tags[i].NoteID = existing.ID
		}
		if len(tags) > 0 {
			if err := tx.Create(&tags).Error; err != nil {
				return fmt.Errorf("save note tags: %w", err)
			}
		}
		existing.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete 删除笔记
func (s *NoteService) Delete(owner string, id uint) error {
	result := s.db.Where("owner = ?", owner).Delete(&db.Note{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Tags 返回用户使用过的标签及次数
func (s *NoteService) Tags(owner string) ([]TagUsage, error) {
	var usages []TagUsage
	if err := s.db.Model(&db.NoteTag{}).
		Select("note_tags.name AS name, COUNT(*) AS count").
		Joins("JOIN notes ON notes.id = note_tags.note_id AND notes.deleted_at IS NULL").
		Where("note_tags.owner = ?", owner).
		Group("note_tags.name").
		Order("count DESC").
		Order("name ASC").
		Scan(&usages).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return usages, nil
}

// TagUsage 描述标签的使用次数
type TagUsage struct {
	Name  string
	Count int64
}

func (s *NoteService) validate(owner string, input NoteInput) error {
	if strings.TrimSpace(input.Title) == "" && strings.TrimSpace(input.Content) == "" {
		return ErrNoteEmpty
	}
	if input.FolderID != nil {
		var count int64
		if err := s.db.Model(&db.Folder{}).Where("owner = ? AND id = ?", owner, *input.FolderID).Count(&count).Error; err != nil {
			return fmt.Errorf("check folder: %w", err)
		}
		if count == 0 {
			return ErrFolderNotFound
		}
	}
	return nil
}

func resolveNoteTitle(input NoteInput) string {
	if title := strings.TrimSpace(input.Title); title != "" {
		return title
	}
	return db.DeriveTitleFromContent(input.Content)
}

func buildNoteTags(owner string, names []string) []db.NoteTag {
	seen := make(map[string]struct{}, len(names))
	tags := make([]db.NoteTag, 0, len(names))
	for _, raw := range names {
		name := normalizeTag(raw)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, db.NoteTag{Owner: owner, Name: name})
	}
	return tags
}

func normalizeTag(raw string) string {
	name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "#")))
	if runes := []rune(name); len(runes) > maxTagLength {
		name = string(runes[:maxTagLength])
	}
	return name
}
