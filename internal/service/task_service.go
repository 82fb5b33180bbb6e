package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound 任务不存在或不属于当前用户
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskTitleRequired 任务标题为空
	ErrTaskTitleRequired = errors.New("task title is required")
	// ErrTaskInvalidPriority 优先级不在 low/medium/high 之内
	ErrTaskInvalidPriority = errors.New("invalid task priority")
)

// TaskService 负责任务的增删改查与完成状态切换
type TaskService struct {
	db  *gorm.DB
	now func() time.Time
}

// TaskInput 定义创建/更新任务时可配置字段
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

// TaskFilter 描述列表过滤条件，Status 支持 open/done，空值返回全部
type TaskFilter struct {
	Status string
	Search string
}

// NewTaskService 构造 TaskService
func NewTaskService(gdb *gorm.DB) *TaskService {
	return &TaskService{db: gdb, now: time.Now}
}

// WithClock 允许在测试中固定完成时间
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	if now == nil {
		return s
	}
	s.now = now
	return s
}

// List 返回用户任务，未完成的排在前面
func (s *TaskService) List(owner string, filter TaskFilter) ([]db.Task, error) {
	var tasks []db.Task

	query := s.db.Model(&db.Task{}).Where("owner = ?", owner)

	switch strings.ToLower(strings.TrimSpace(filter.Status)) {
	case "open":
		query = query.Where("completed IS NULL OR completed = ?", false)
	case "done":
		query = query.Where("completed = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Order("completed ASC").Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get 根据 ID 获取任务
func (s *TaskService) Get(owner string, id uint) (*db.Task, error) {
	var task db.Task
	if err := s.db.Where("owner = ?", owner).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// Create 新建任务，默认未完成
func (s *TaskService) Create(owner string, input TaskInput) (*db.Task, error) {
	priority, err := validateTaskInput(input)
	if err != nil {
		return nil, err
	}

	completed := false
	task := db.Task{
		Owner:       owner,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		DueDate:     input.DueDate,
		Completed:   &completed,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// Update 更新任务内容，不改变完成状态
func (s *TaskService) Update(owner string, id uint, input TaskInput) (*db.Task, error) {
	priority, err := validateTaskInput(input)
	if err != nil {
		return nil, err
	}

	task, err := s.Get(owner, id)
	if err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = strings.TrimSpace(input.Description)
	task.Priority = priority
	task.DueDate = input.DueDate

	if err := s.db.Save(task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// SetCompleted 切换完成状态；完成时记录时间，重新打开时清空
func (s *TaskService) SetCompleted(owner string, id uint, completed bool) (*db.Task, error) {
	task, err := s.Get(owner, id)
	if err != nil {
		return nil, err
	}

	if task.IsCompleted() == completed && task.Completed != nil {
		return task, nil
	}

	task.Completed = &completed
	if completed {
		now := s.now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.db.Model(task).Select("completed", "completed_at", "updated_at").Updates(task).Error; err != nil {
		return nil, fmt.Errorf("set task completion: %w", err)
	}
	return task, nil
}

// Delete 删除任务
func (s *TaskService) Delete(owner string, id uint) error {
	result := s.db.Where("owner = ?", owner).Delete(&db.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func validateTaskInput(input TaskInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", ErrTaskTitleRequired
	}

	priority := strings.ToLower(strings.TrimSpace(input.Priority))
	switch priority {
	case "":
		return "medium", nil
	case "low", "medium", "high":
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrTaskInvalidPriority, input.Priority)
	}
}
