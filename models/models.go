package models

import (
	"time"

	"github.com/lib/pq"
)

// Категории объявлений
type PropertyCategory string

const (
	CategoryResidential PropertyCategory = "Residential"
	CategoryCommercial  PropertyCategory = "Commercial"
	CategoryFarmHouse   PropertyCategory = "FarmHouse/Villas"
)

func ValidPropertyCategory(c PropertyCategory) bool {
	switch c {
	case CategoryResidential, CategoryCommercial, CategoryFarmHouse:
		return true
	default:
		return false
	}
}

// Статусы тендера (каноничный набор)
type TenderStatus string

const (
	TenderUpcoming TenderStatus = "upcoming"
	TenderOngoing  TenderStatus = "ongoing"
	TenderClosed   TenderStatus = "closed"
	TenderAwarded  TenderStatus = "awarded"
)

// ParseTenderStatus приводит сохраненное значение к каноничному статусу.
// Старые синонимы active/coming_soon переводятся в ongoing/upcoming,
// неизвестные значения дают пустой статус.
func ParseTenderStatus(s string) TenderStatus {
	switch s {
	case "upcoming", "coming_soon":
		return TenderUpcoming
	case "ongoing", "active":
		return TenderOngoing
	case "closed":
		return TenderClosed
	case "awarded":
		return TenderAwarded
	default:
		return ""
	}
}

// Статусы предложения
type BidStatus string

const (
	BidSubmitted   BidStatus = "submitted"
	BidUnderReview BidStatus = "under_review"
	BidAccepted    BidStatus = "accepted"
	BidRejected    BidStatus = "rejected"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidSubmitted, BidUnderReview, BidAccepted, BidRejected:
		return true
	default:
		return false
	}
}

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Сущность Пользователя
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// Сущность Объявления
type Property struct {
	ID          int64            `db:"id" json:"id"`
	Location    string           `db:"location" json:"location"`
	Price       float64          `db:"price" json:"price"`
	Area        float64          `db:"area" json:"area"`
	Category    PropertyCategory `db:"category" json:"category"`
	Contact     string           `db:"contact" json:"contact"`
	ImageURL    string           `db:"image_url" json:"imageUrl"`
	Description string           `db:"description" json:"description"`
	Amenities   pq.StringArray   `db:"amenities" json:"amenities"`
	BHK         *int             `db:"bhk" json:"bhk,omitempty"`
	Baths       *int             `db:"baths" json:"baths,omitempty"`
	CreatedBy   string           `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}

// PropertyInput - данные формы размещения объявления
type PropertyInput struct {
	Location    string           `json:"location" validate:"required,max=200"`
	Price       float64          `json:"price" validate:"gt=0"`
	Area        float64          `json:"area" validate:"gt=0"`
	Category    PropertyCategory `json:"category" validate:"required,oneof=Residential Commercial FarmHouse/Villas"`
	Contact     string           `json:"contact" validate:"required,max=50"`
	ImageURL    string           `json:"imageUrl" validate:"required,url,startswith=https://"`
	Description string           `json:"description" validate:"required,max=2000"`
	Amenities   []string         `json:"amenities" validate:"dive,required,max=50"`
	BHK         *int             `json:"bhk" validate:"omitempty,min=1,max=20"`
	Baths       *int             `json:"baths" validate:"omitempty,min=1,max=20"`
}

// Сущность Избранного
type Favorite struct {
	UserID     string    `db:"user_id" json:"userId"`
	PropertyID int64     `db:"property_id" json:"propertyId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Сущность Тендера
type Tender struct {
	ID                  int64          `db:"id" json:"id"`
	Title               string         `db:"title" json:"title" validate:"required,max=200"`
	ReferenceNo         string         `db:"reference_no" json:"referenceNo" validate:"required,max=100"`
	StartDate           *time.Time     `db:"start_date" json:"startDate" validate:"required"`
	ClosingDate         *time.Time     `db:"closing_date" json:"closingDate" validate:"required"`
	OpeningDate         *time.Time     `db:"opening_date" json:"openingDate,omitempty"`
	Description         string         `db:"description" json:"description" validate:"required,max=5000"`
	Category            string         `db:"category" json:"category" validate:"required,max=100"`
	EstimatedCost       float64        `db:"estimated_cost" json:"estimatedCost" validate:"gte=0"`
	Status              string         `db:"status" json:"status"`
	Documents           pq.StringArray `db:"documents" json:"documents"`
	EligibilityCriteria pq.StringArray `db:"eligibility_criteria" json:"eligibilityCriteria"`
	CreatedAt           time.Time      `db:"created_at" json:"createdAt"`
}

// Сущность Предложения
type Bid struct {
	ID        int64     `db:"id" json:"id"`
	TenderID  int64     `db:"tender_id" json:"tenderId"`
	UserID    string    `db:"user_id" json:"userId"`
	Amount    float64   `db:"amount" json:"amount"`
	Status    BidStatus `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Сущность Уведомления
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Type      string    `db:"type" json:"type"`
	Message   string    `db:"message" json:"message"`
	TenderID  *int64    `db:"tender_id" json:"tenderId,omitempty"`
	BidID     *int64    `db:"bid_id" json:"bidId,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
