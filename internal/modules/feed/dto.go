package feed

type CreateFeedRequest struct {
	UnitID  int64  `json:"unit_id" binding:"required"`
	Channel string `json:"channel" binding:"required"`
	URL     string `json:"url" binding:"required,url"`
	Active  *bool  `json:"active"`
}

type UpdateFeedRequest struct {
	Channel *string `json:"channel"`
	URL     *string `json:"url" binding:"omitempty,url"`
	Active  *bool   `json:"active"`
}
