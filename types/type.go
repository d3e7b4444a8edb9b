package types

import (
	"fmt"
)

type Schedule struct {
	Id          int64    `json:"id,omitempty"`
	Title       string   `json:"title" validate:"notblank"`
	Date        Date     `json:"date" validate:"required"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty" validate:"max=3"`
	Links       []string `json:"links,omitempty" validate:"max=2,dive,url"`
	Color       string   `json:"color,omitempty" validate:"omitempty,color"`
	Category    string   `json:"category,omitempty"`
	Priority    int      `json:"priority,omitempty" validate:"omitempty,min=1,max=3"`
	Featured    bool     `json:"featured,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

func (s Schedule) String() string {
	return fmt.Sprintf("%s (%s) Id: %d", s.Title, s.Date, s.Id)
}

// Schedule sort orders accepted by the list endpoint
const (
	SortByDate      = "date"
	SortByTitle     = "title"
	SortByCreatedAt = "createdAt"
)

type Notice struct {
	Id        int64  `json:"id,omitempty"`
	Title     string `json:"title" validate:"notblank"`
	Content   string `json:"content" validate:"notblank"`
	Priority  int    `json:"priority" validate:"min=0,max=2"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type SubscriptionRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name,omitempty"`
	Preferences []string `json:"preferences,omitempty"`
}

type Subscriber struct {
	Id          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	IsActive    bool     `json:"isActive"`
	IsConfirmed bool     `json:"isConfirmed"`
	Preferences []string `json:"preferences"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

type EventRequest struct {
	Id               int64         `json:"id,omitempty"`
	Email            string        `json:"email" validate:"required,email"`
	VerificationCode string        `json:"verificationCode,omitempty"`
	Title            string        `json:"title" validate:"notblank"`
	Date             Date          `json:"date" validate:"required"`
	Description      string        `json:"description,omitempty"`
	Category         string        `json:"category,omitempty"`
	Images           []string      `json:"images,omitempty" validate:"max=3"`
	Links            []string      `json:"links,omitempty" validate:"max=2,dive,url"`
	Status           RequestStatus `json:"status,omitempty"`
	CreatedAt        string        `json:"createdAt,omitempty"`
}

// AdminSession is returned by a successful admin login
type AdminSession struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type AdminProfile struct {
	Id    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type UploadResult struct {
	Url      string `json:"url"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}
