package dto

import "elearning_backend/internals/features/courses/contents/service"

// ReorderRequest: urutan baru lengkap (semua chapter & quiz course).
type ReorderRequest struct {
	Items []service.Ref `json:"items" validate:"required,min=1,dive"`
}
