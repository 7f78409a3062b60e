package dto

type LocationResponse struct {
	StudentID   string  `json:"student_id"`
	StudentCode string  `json:"student_code"`
	StudentName string  `json:"student_name"`
	BranchName  string  `json:"branch_name"`
	RouteName   string  `json:"route_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type ListLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
}

type PendingStudentResponse struct {
	StudentID     string `json:"student_id"`
	StudentCode   string `json:"student_code"`
	StudentName   string `json:"student_name"`
	SectionName   string `json:"section_name"`
	BranchName    string `json:"branch_name"`
	RouteName     string `json:"route_name"`
	VehicleNumber string `json:"vehicle_number"`
}

type ListPendingResponse struct {
	Students []PendingStudentResponse `json:"students"`
}

type LogLocationRequest struct {
	StudentCodes []string `json:"student_codes" validate:"required,min=1,dive,required"`
	Latitude     *float64 `json:"latitude" validate:"required"`
	Longitude    *float64 `json:"longitude" validate:"required"`
	BranchName   string   `json:"branch_name" validate:"required"`
}

type ClearLocationsRequest struct {
	StudentCodes []string `json:"student_codes" validate:"required,min=1,dive,required"`
}

type UpdatedResponse struct {
	Updated int64  `json:"updated"`
	Message string `json:"message"`
}

type StatsResponse struct {
	Total   int `json:"total"`
	Logged  int `json:"logged"`
	Pending int `json:"pending"`
}
