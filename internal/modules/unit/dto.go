package unit

type CreateUnitRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gte=1"`
}

type UpdateUnitRequest struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity" binding:"omitempty,gte=1"`
	Active   *bool   `json:"active"`
}
