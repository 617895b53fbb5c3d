package dto

// CreateOfficeRequest 创建办公室请求
type CreateOfficeRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Code        string `json:"code" binding:"max=50"`
	Description string `json:"description"`
}

// UpdateOfficeRequest 更新办公室请求
type UpdateOfficeRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Code        *string `json:"code" binding:"omitempty,max=50"`
	Description *string `json:"description"`
}

// CreatePositionRequest 创建职位请求
type CreatePositionRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// UpdatePositionRequest 更新职位请求
type UpdatePositionRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}
