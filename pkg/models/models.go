// Package models defines the domain models shared by the artisanhub backend
package models

import (
	"time"
)

// ScheduleType tells the marketplace whether a job has a fixed slot
type ScheduleType string

const (
	ScheduleTypeASAP      ScheduleType = "ASAP"
	ScheduleTypeScheduled ScheduleType = "SCHEDULED"
)

// JobStatus represents the lifecycle state of a job listing on the marketplace
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Location is the coarse location attached to jobs and artisans
type Location struct {
	City  string `json:"city"`
	LGA   string `json:"lga,omitempty"`
	State string `json:"state"`
}

// String renders the location the way the listing screens display it.
func (l Location) String() string {
	switch {
	case l.City == "":
		return l.State
	case l.State == "":
		return l.City
	default:
		return l.City + ", " + l.State
	}
}

// Job represents a job listing as returned by the marketplace
type Job struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	Subcategory  string       `json:"subcategory,omitempty"`
	Location     Location     `json:"location"`
	PriceRange   string       `json:"priceRange,omitempty"`
	Budget       *float64     `json:"budget,omitempty"`
	ScheduleType ScheduleType `json:"scheduleType,omitempty"`
	Status       JobStatus    `json:"status"`
	Attachments  []string     `json:"attachments,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Artisan represents a tradesperson discoverable on the marketplace
type Artisan struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Skills      []string `json:"skills,omitempty"`
	Location    Location `json:"location"`
	PriceRange  string   `json:"priceRange,omitempty"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Verified    bool     `json:"verified"`
	Bio         string   `json:"bio,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
}

// Category is an entry of the externally supplied trade taxonomy
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subcategory belongs to exactly one Category
type Subcategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
}

// Role distinguishes customers from artisans
type Role string

const (
	RoleCustomer Role = "customer"
	RoleArtisan  Role = "artisan"
)

// User is the authenticated marketplace account
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// HealthStatus represents service health
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProblemDetails represents RFC 7807 Problem Details
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}
