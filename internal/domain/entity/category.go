// Package entity 定义领域实体
package entity

// Category 文档分类
type Category string

const (
	CategoryAdministrative    Category = "Administrative"
	CategoryAcademics         Category = "Academics"
	CategoryResearch          Category = "Research"
	CategoryPolicies          Category = "Policies"
	CategoryOfficialIssuances Category = "Official Issuances"
	CategoryNewsEvents        Category = "News & Events"
	// CategoryGeneral 兜底分类，所有信号得分不足时使用
	CategoryGeneral Category = "General"
)

// Categories 固定分类目录，顺序即并列得分时的优先顺序
var Categories = []Category{
	CategoryAdministrative,
	CategoryAcademics,
	CategoryResearch,
	CategoryPolicies,
	CategoryOfficialIssuances,
	CategoryNewsEvents,
}

// IsValid 判断分类是否属于固定目录（含 General）
func (c Category) IsValid() bool {
	if c == CategoryGeneral {
		return true
	}
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
