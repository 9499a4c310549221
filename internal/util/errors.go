package util

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotOwner           = errors.New("you are not the owner of this course")
	ErrCourseNotFound     = errors.New("course not found")
	ErrChapterNotFound    = errors.New("chapter not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrIncompleteCourse   = errors.New("please fill out all the fields and publish at least one chapter")
	ErrIncompleteChapter  = errors.New("fields are missing to publish this chapter")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidVideoExt    = errors.New("unsupported video format")
	ErrInvalidImageExt    = errors.New("unsupported image format")
)
