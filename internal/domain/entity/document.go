package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// 文档处理状态
const (
	DocumentStatusPending    = "pending"    // 已上传，等待处理
	DocumentStatusProcessing = "processing" // 提取/分类/向量化中
	DocumentStatusReady      = "ready"      // 处理完成，可被检索
	DocumentStatusFailed     = "failed"     // 处理失败
)

// 支持的文档类型
const (
	DocumentTypePDF   = "pdf"
	DocumentTypeDOCX  = "docx"
	DocumentTypeImage = "image"
	DocumentTypeText  = "txt"
)

// EmbeddingVector 文档向量，以 JSON 数组存储在关系库中
type EmbeddingVector []float32

// Value 实现 driver.Valuer
func (v EmbeddingVector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan 实现 sql.Scanner
func (v *EmbeddingVector) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	switch data := value.(type) {
	case []byte:
		return json.Unmarshal(data, v)
	case string:
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("unsupported embedding vector type: %T", value)
	}
}

// Document 文档实体
type Document struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Filename    string `gorm:"type:varchar(512);not null" json:"filename"`
	Filepath    string `gorm:"type:varchar(1024);not null" json:"-"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	// Type 文档格式: pdf / docx / image / txt
	Type string `gorm:"type:varchar(20);not null" json:"type"`
	Size int64  `gorm:"not null;default:0" json:"size"`
	Year int    `gorm:"index" json:"year"`
	// Category 分类结果，处理完成前为空
	Category string         `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Keywords pq.StringArray `gorm:"type:text[]" json:"keywords,omitempty"`
	// ExtractedText 提取出的正文，提取失败时为空字符串
	ExtractedText string          `gorm:"type:text" json:"-"`
	Embedding     EmbeddingVector `gorm:"type:jsonb" json:"-"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	FailReason    string          `gorm:"type:text" json:"fail_reason,omitempty"`
	OfficeID      *string         `gorm:"type:uuid;index" json:"office_id,omitempty"`
	Office        *Office         `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
	UploadedBy    string          `gorm:"type:uuid;index;not null" json:"uploaded_by"`
	Uploader      *User           `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Document) TableName() string {
	return "documents"
}

// HasEmbedding 判断文档是否已有向量
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// EmbeddingInput 返回向量化输入文本
// 正文为空时回退到 描述 + 文件名
func (d *Document) EmbeddingInput() string {
	if d.ExtractedText != "" {
		return d.ExtractedText
	}
	if d.Description != "" {
		return d.Description + " " + d.Filename
	}
	return d.Filename
}
