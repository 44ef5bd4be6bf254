package models

import "time"

// Comment lives only here; the course side of the relationship is a query,
// never a duplicated id array.
type Comment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	OwnerID  uint   `json:"commentOwner" gorm:"not null;index"`
	CourseID uint   `json:"commentedCourse" gorm:"not null;index"`
	Text     string `json:"text" gorm:"type:text;not null" validate:"required,min=1,max=2000"`

	CreatedAt time.Time `json:"created_at"`

	Owner  User   `json:"-" gorm:"foreignKey:OwnerID"`
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

type Review struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Star     int    `json:"star" gorm:"not null" validate:"required,min=1,max=5"`
	Comment  string `json:"reviewComment" gorm:"type:text"`
	GiverID  uint   `json:"giver" gorm:"not null;index"`
	CourseID uint   `json:"original" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`

	Giver  User   `json:"-" gorm:"foreignKey:GiverID"`
	Course Course `json:"-" gorm:"foreignKey:CourseID"`
}

func (Comment) TableName() string {
	return "comments"
}

func (Review) TableName() string {
	return "reviews"
}
