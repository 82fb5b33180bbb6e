package service

import (
	"errors"
	"fmt"

	"github.com/pixelpages/internal/db"
	"gorm.io/gorm"
)

// ErrUnknownAchievement 成就 ID 不在目录中时返回
var ErrUnknownAchievement = errors.New("unknown achievement")

// AchievementCatalog 是启动时加载的只读成就目录
type AchievementCatalog struct {
	defs []db.AchievementDefinition
	byID map[string]int
}

// NewAchievementCatalog 基于给定定义构造目录，定义会被校验并复制
func NewAchievementCatalog(defs []db.AchievementDefinition) (*AchievementCatalog, error) {
	if err := db.ValidateDefinitions(defs); err != nil {
		return nil, err
	}

	catalog := &AchievementCatalog{
		defs: make([]db.AchievementDefinition, len(defs)),
		byID: make(map[string]int, len(defs)),
	}
	copy(catalog.defs, defs)
	for i, def := range catalog.defs {
		catalog.byID[def.ID] = i
	}
	return catalog, nil
}

// LoadAchievementCatalog 从数据库读取全部成就定义
func LoadAchievementCatalog(gdb *gorm.DB) (*AchievementCatalog, error) {
	var defs []db.AchievementDefinition
	if err := gdb.Order("sort_order ASC").Order("id ASC").Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}
	return NewAchievementCatalog(defs)
}

// All 按目录顺序返回全部定义
func (c *AchievementCatalog) All() []db.AchievementDefinition {
	out := make([]db.AchievementDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ByID 查找定义，未知 ID 返回 false
func (c *AchievementCatalog) ByID(id string) (db.AchievementDefinition, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return db.AchievementDefinition{}, false
	}
	return c.defs[idx], true
}

// Len 返回定义数量
func (c *AchievementCatalog) Len() int {
	return len(c.defs)
}

// UsesRequirement 判断目录中是否有定义读取该计数器
func (c *AchievementCatalog) UsesRequirement(req db.Requirement) bool {
	for _, def := range c.defs {
		if def.RequirementType == req {
			return true
		}
	}
	return false
}
