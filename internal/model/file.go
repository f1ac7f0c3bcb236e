package model

type File struct {
	ID uint `gorm:"primaryKey;autoIncrement;index" json:"id"`
	// Storage key. Equals the uploaded file name unless upload.unique_names is set
	Filename string  `gorm:"not null" json:"filename"`
	IsImage  bool    `json:"isImage"`
	Image    *string `json:"image,omitempty"` // Public path, only set for images
	PostID   uint    `gorm:"index;not null" json:"postId"`
}
