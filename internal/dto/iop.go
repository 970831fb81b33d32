package dto

// ── 跨机构互操作模块 DTO ──

// OrganisationResponse 对端机构及其可预约设施
type OrganisationResponse struct {
	Ref        string          `json:"_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Facilities []FacilityBrief `json:"facilities"`
}

// FacilityBrief 对端机构的机房简要信息
type FacilityBrief struct {
	Ref  string `json:"_id"`
	Name string `json:"name"`
}
