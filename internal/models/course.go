package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string  `json:"description" gorm:"type:text"`
	Category    string  `json:"category" gorm:"size:100;index"`
	Price       int64   `json:"price" gorm:"not null" validate:"min=0"`
	Thumb       *string `json:"thumb" gorm:"size:500"`
	OwnerID     uint    `json:"courseOwner" gorm:"not null;index"`

	// Derived: mean of review stars, recomputed when a review lands.
	Rating float64 `json:"rating" gorm:"default:0;index"`
	Likes  int64   `json:"likes" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Owner   User     `json:"-" gorm:"foreignKey:OwnerID"`
	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

type Module struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Video       string `json:"video" gorm:"size:500"`
	Description string `json:"description" gorm:"type:text"`
	CourseID    *uint  `json:"course_id" gorm:"index"`
	Position    int    `json:"position" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enrollment is the edge table between students and courses. The unique pair
// index is what gives enrolled-course lists set semantics.
type Enrollment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	CreatedAt time.Time `json:"created_at"`
}

// TeacherStudent links a teacher to every student that paid for one of their
// courses, once per pair.
type TeacherStudent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TeacherID uint      `json:"teacher_id" gorm:"not null;uniqueIndex:idx_teacher_student_pair"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_teacher_student_pair"`
	CreatedAt time.Time `json:"created_at"`
}

func (Course) TableName() string {
	return "courses"
}

func (Module) TableName() string {
	return "modules"
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (TeacherStudent) TableName() string {
	return "teacher_students"
}
