package dto

type ShortlistAddRequest struct {
	InternID string `json:"internId" validate:"required"`
}

type ShortlistReplaceRequest struct {
	InternIDs []string `json:"internIds" validate:"dive,required"`
}

type ShortlistResponse struct {
	Kind      string   `json:"kind"`
	InternIDs []string `json:"internIds"`
	Limit     int      `json:"limit,omitempty"`
}
