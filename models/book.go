package models

import "time"

type Book struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author,omitempty"` // display name, not the uploader
	Category     string    `json:"category,omitempty"`
	Description  string    `json:"description,omitempty"`
	StoredName   string    `json:"-"` // on-disk filename in the upload directory
	OriginalName string    `json:"originalName"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedBy   string    `json:"uploadedBy"` // user ID of the uploader
	UploadedAt   time.Time `json:"uploadedAt"`
	Downloads    int64     `json:"downloads"`
}
