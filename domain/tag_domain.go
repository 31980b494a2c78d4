package domain

import "errors"

var (
	MessageSuccessGetTags = "success get tags"
	MessageSuccessSaveTag = "tag saved successfully"

	MessageFailedGetTags = "failed to get tags"
	MessageFailedSaveTag = "failed to save tag"

	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag already exists")
	ErrInvalidTagColor  = errors.New("color is not part of the tag palette")
)

type (
	CreateTagRequest struct {
		Name  string `json:"name" validate:"required,max=200"`
		Slug  string `json:"slug" validate:"required,max=200"`
		Color string `json:"color" validate:"required,max=16"`
	}

	TagResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
)
