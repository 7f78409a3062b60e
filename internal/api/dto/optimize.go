package dto

type OptimizeRequest struct {
	VehicleID int64 `json:"vehicle_id" validate:"required,gt=0"`
	BranchID  int64 `json:"branch_id" validate:"required,gt=0"`
}

type OptimizeByNameRequest struct {
	BranchName string `json:"branch_name" validate:"required"`
	RouteName  string `json:"route_name" validate:"required"`
}
