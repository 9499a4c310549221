package model

// swagger:model Category
type Category struct {
	UUIDBase
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// Course is the top-level authored unit, owned by the instructor who created it.
// It may only be published once title, description, cover image, category and at
// least one published chapter are all present.
// swagger:model Course
type Course struct {
	UUIDBase
	UserID      string  `gorm:"size:36;index;not null" json:"userId"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	ImageURL    string  `gorm:"size:512" json:"imageUrl"`
	Price       float64 `gorm:"default:0" json:"price"`
	CategoryID  *string `gorm:"size:36;index" json:"categoryId"`
	IsPublished bool    `gorm:"default:false;index" json:"isPublished"`

	Chapters    []Chapter    `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:CourseID" json:"attachments,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Attachment
type Attachment struct {
	UUIDBase
	CourseID string `gorm:"size:36;index;not null" json:"courseId"`
	Name     string `gorm:"size:255" json:"name"`
	URL      string `gorm:"size:512;not null" json:"url"`
}

func (Attachment) TableName() string {
	return "attachments"
}
