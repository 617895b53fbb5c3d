package entity

import (
	"time"

	"gorm.io/gorm"
)

// 下载申请状态
const (
	DownloadStatusPending  = "pending"
	DownloadStatusApproved = "approved"
	DownloadStatusRejected = "rejected"
)

// DownloadRequest 下载审批申请
// 非管理员下载文档前需先提交申请并由管理员审批
type DownloadRequest struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID  string         `gorm:"type:uuid;index;not null" json:"document_id"`
	Document    *Document      `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	RequesterID string         `gorm:"type:uuid;index;not null" json:"requester_id"`
	Requester   *User          `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Reason      string         `gorm:"type:text" json:"reason,omitempty"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedBy  *string        `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewNote  string         `gorm:"type:text" json:"review_note,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (DownloadRequest) TableName() string {
	return "download_requests"
}

// IsPending 判断申请是否待审批
func (r *DownloadRequest) IsPending() bool {
	return r.Status == DownloadStatusPending
}
