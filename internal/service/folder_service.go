package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrFolderNotFound 文件夹不存在或不属于当前用户
	ErrFolderNotFound = errors.New("folder not found")
	// ErrFolderNameRequired 文件夹名称为空
	ErrFolderNameRequired = errors.New("folder name is required")
	// ErrFolderExists 同名文件夹已存在
	ErrFolderExists = errors.New("folder already exists")
)

// FolderService 管理用户的笔记本
type FolderService struct {
	db *gorm.DB
}

// FolderInput 定义创建/更新文件夹时可配置字段
type FolderInput struct {
	Name  string
	Color string
}

// NewFolderService 构造 FolderService
func NewFolderService(gdb *gorm.DB) *FolderService {
	return &FolderService{db: gdb}
}

// List 返回用户的文件夹及其笔记数量
func (s *FolderService) List(owner string) ([]db.Folder, error) {
	var rows []db.Folder
	if err := s.db.Model(&db.Folder{}).
		Select("folders.*, COUNT(notes.id) AS note_count").
		Joins("LEFT JOIN notes ON notes.folder_id = folders.id AND notes.deleted_at IS NULL").
		Where("folders.owner = ?", owner).
		Group("folders.id").
		Order("folders.name ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return rows, nil
}

// Get 根据 ID 获取文件夹
func (s *FolderService) Get(owner string, id uint) (*db.Folder, error) {
	var folder db.Folder
	if err := s.db.Where("owner = ?", owner).First(&folder, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return &folder, nil
}

// Create 新建文件夹
func (s *FolderService) Create(owner string, input FolderInput) (*db.Folder, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}
	if err := s.ensureUniqueName(owner, name, 0); err != nil {
		return nil, err
	}

	folder := db.Folder{Owner: owner, Name: name, Color: strings.TrimSpace(input.Color)}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return &folder, nil
}

// Update 重命名或更换颜色
func (s *FolderService) Update(owner string, id uint, input FolderInput) (*db.Folder, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}

	folder, err := s.Get(owner, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(owner, name, folder.ID); err != nil {
		return nil, err
	}

	folder.Name = name
	folder.Color = strings.TrimSpace(input.Color)
	if err := s.db.Save(folder).Error; err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}
	return folder, nil
}

// Delete 删除文件夹，其中的笔记移出文件夹而不删除
func (s *FolderService) Delete(owner string, id uint) error {
	if _, err := s.Get(owner, id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Note{}).
			Where("owner = ? AND folder_id = ?", owner, id).
			Update("folder_id", nil).Error; err != nil {
			return fmt.Errorf("detach notes: %w", err)
		}
		if err := tx.Where("owner = ?", owner).Delete(&db.Folder{}, id).Error; err != nil {
			return fmt.Errorf("delete folder: %w", err)
		}
		return nil
	})
}

func (s *FolderService) ensureUniqueName(owner, name string, excludeID uint) error {
	query := s.db.Model(&db.Folder{}).Where("owner = ? AND LOWER(name) = ?", owner, strings.ToLower(name))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check folder name: %w", err)
	}
	if count > 0 {
		return ErrFolderExists
	}
	return nil
}
