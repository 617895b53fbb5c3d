// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionDocumentVectors 文档向量集合
	CollectionDocumentVectors = "document_vectors"
)

// DocumentVectorsSchema 文档向量 Collection Schema
func DocumentVectorsSchema(dim int) *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionDocumentVectors,
		Description:    "Document embeddings for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "document_id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dim),
				},
			},
		},
	}
}
