package entity

import (
	"time"
)

// 访问动作
const (
	AccessActionView     = "view"
	AccessActionSearch   = "search"
	AccessActionUpload   = "upload"
	AccessActionDownload = "download"
	AccessActionDelete   = "delete"
)

// AccessLog 访问审计日志
type AccessLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;index;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	DocumentID *string   `gorm:"type:uuid;index" json:"document_id,omitempty"`
	Action     string    `gorm:"type:varchar(20);not null;index" json:"action"`
	Detail     string    `gorm:"type:text" json:"detail,omitempty"`
	IPAddress  string    `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent  string    `gorm:"type:varchar(512)" json:"user_agent,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AccessLog) TableName() string {
	return "access_logs"
}
