package dto

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	FirstName  string  `json:"first_name" binding:"max=100"`
	LastName   string  `json:"last_name" binding:"max=100"`
	Role       string  `json:"role" binding:"required,oneof=admin staff viewer"`
	OfficeID   *string `json:"office_id"`
	PositionID *string `json:"position_id"`
}

// UpdateUserRequest 更新用户请求，零值字段不更新
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Role       *string `json:"role" binding:"omitempty,oneof=admin staff viewer"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive"`
	OfficeID   *string `json:"office_id"`
	PositionID *string `json:"position_id"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ListQuery 通用分页查询参数
type ListQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// Offset 计算偏移量
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
