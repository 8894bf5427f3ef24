package models

import "time"

// Student is the roster entity. The attendance core only reads it; student
// management lives in a separate admin system.
type Student struct {
	ID        uint   `gorm:"primaryKey"                   json:"id"`
	StudentID string `gorm:"size:20;uniqueIndex;not null" json:"student_id"` // public student number, e.g. ST10060
	FirstName string `gorm:"size:50;not null"             json:"first_name"`
	LastName  string `gorm:"size:50;not null"             json:"last_name"`
	Level     string `gorm:"size:20;not null"             json:"level"`   // grade level, e.g. "8"
	Section   string `gorm:"size:10;not null"             json:"section"` // room/section, e.g. "A"
	Status    string `gorm:"size:20;not null"             json:"status"`  // active|left|suspended

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
