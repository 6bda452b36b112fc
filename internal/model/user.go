package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gamehub/pkg/apperr"
)

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleUser             Role = "USER"
	RoleAdministrator    Role = "ADMINISTRATOR"
	RoleCommunityManager Role = "COMMUNITY_MANAGER"
)

// ParseRole 解析角色名，未知角色返回 InvalidArgument
func ParseRole(name string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(name))); r {
	case RoleUser, RoleAdministrator, RoleCommunityManager:
		return r, nil
	default:
		return "", apperr.InvalidArgument("unknown role %q", name)
	}
}

// ParseRoles 批量解析角色名并去重
func ParseRoles(names []string) (RoleSet, error) {
	roles := make(RoleSet, 0, len(names))
	for _, name := range names {
		r, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		if !roles.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

// RoleSet 角色集合，以逗号拼接存储在单列中
type RoleSet []Role

// Has 是否包含角色
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Strings 转换为字符串切片（写入JWT、响应）
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// Value 实现 driver.Valuer
func (s RoleSet) Value() (driver.Value, error) {
	return strings.Join(s.Strings(), ","), nil
}

// Scan 实现 sql.Scanner
func (s *RoleSet) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*s = RoleSet{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported role set type %T", src)
	}
	roles := RoleSet{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, Role(part))
		}
	}
	*s = roles
	return nil
}

// User 用户模型
// 索引与唯一约束：用户名唯一、邮箱唯一
// 说明：密码仅存储哈希（PasswordHash），不存储明文
// 评论与购买记录归用户所有，删除用户时级联删除

type User struct {
	ID             uint       `gorm:"primaryKey"`
	Username       string     `gorm:"type:varchar(64);not null;uniqueIndex;comment:用户名"`
	Email          string     `gorm:"type:varchar(128);not null;uniqueIndex;comment:邮箱"`
	PasswordHash   string     `gorm:"type:varchar(255);not null;comment:密码哈希"`
	ProfilePicture string     `gorm:"type:varchar(255);comment:头像文件名"`
	Description    string     `gorm:"type:text;comment:个人简介"`
	Roles          RoleSet    `gorm:"type:varchar(255);comment:角色"`
	Reviews        []Review   `gorm:"foreignKey:UserID"`
	Purchases      []Purchase `gorm:"foreignKey:UserID"`
	CreatedAt      time.Time  `gorm:"comment:创建时间"`
	UpdatedAt      time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名（因全局配置使用单数表名，这里与结构体名一致为 user）
func (User) TableName() string { return "user" }
