package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseStatus string

const (
	StatusPending  CourseStatus = "pending"
	StatusApproved CourseStatus = "approved"
	StatusDenied   CourseStatus = "denied"
)

type Course struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	InstructorEmail string             `json:"instructorEmail" bson:"instructorEmail"`
	InstructorName  string             `json:"instructorName" bson:"instructorName"`
	InstructorImg   string             `json:"instructorImg" bson:"instructorImg"`
	Students        int                `json:"students" bson:"students"`
	AvailableSeats  int                `json:"availableSeats" bson:"availableSeats"`
	Price           float64            `json:"price" bson:"price"`
	Image           string             `json:"image" bson:"image"`
	Status          CourseStatus       `json:"status" bson:"status"`
	Feedback        string             `json:"feedback,omitempty" bson:"feedback,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// InstructorSummary is one row of the top-instructors ranking.
type InstructorSummary struct {
	InstructorEmail string `json:"instructorEmail" bson:"_id"`
	InstructorName  string `json:"instructorName" bson:"instructorName"`
	InstructorImg   string `json:"instructorImg" bson:"instructorImg"`
	TotalStudents   int    `json:"totalStudents" bson:"totalStudents"`
	Image           string `json:"image" bson:"image"`
}
