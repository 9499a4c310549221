package model

// Chapter is an ordered unit of content within a course. Position is assigned on
// creation (max+1 within the course) and rewritten by reorder.
// swagger:model Chapter
type Chapter struct {
	UUIDBase
	CourseID    string `gorm:"size:36;index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	VideoURL    string `gorm:"size:512" json:"videoUrl"`
	Position    int    `gorm:"default:0" json:"position"`
	IsFree      bool   `gorm:"default:false" json:"isFree"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`

	VideoAsset *VideoAsset `gorm:"foreignKey:ChapterID" json:"videoAsset,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// VideoAsset mirrors the remote video host's transcoded-asset identifiers,
// one per chapter. Replaced whenever the chapter's video URL changes.
// swagger:model VideoAsset
type VideoAsset struct {
	UUIDBase
	ChapterID  string `gorm:"size:36;uniqueIndex;not null" json:"chapterId"`
	AssetID    string `gorm:"size:191;not null" json:"assetId"`
	PlaybackID string `gorm:"size:191" json:"playbackId"`
}

func (VideoAsset) TableName() string {
	return "video_assets"
}

// swagger:model UserProgress
type UserProgress struct {
	UUIDBase
	UserID      string `gorm:"size:36;not null;uniqueIndex:idx_user_chapter" json:"userId"`
	ChapterID   string `gorm:"size:36;not null;uniqueIndex:idx_user_chapter" json:"chapterId"`
	IsCompleted bool   `gorm:"default:false" json:"isCompleted"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
