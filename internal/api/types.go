// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type UserType string

const (
	UserTypeOwner  UserType = "owner"
	UserTypeTenant UserType = "tenant"
)

type ApplicationStatus string

const (
	ApplicationPending         ApplicationStatus = "pending"
	ApplicationInReview        ApplicationStatus = "in_review"
	ApplicationBackgroundCheck ApplicationStatus = "background_check"
	ApplicationApproved        ApplicationStatus = "approved"
	ApplicationRejected        ApplicationStatus = "rejected"
)

type BackgroundCheckStatus string

const (
	BackgroundCheckNotStarted BackgroundCheckStatus = "not_started"
	BackgroundCheckInProgress BackgroundCheckStatus = "in_progress"
	BackgroundCheckCompleted  BackgroundCheckStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type AgreementStatus string

const (
	AgreementDraft        AgreementStatus = "draft"
	AgreementTenantSigned AgreementStatus = "tenant_signed"
	AgreementBothSigned   AgreementStatus = "both_signed"
	AgreementTerminated   AgreementStatus = "terminated"
)

// ApplicationStatuses lists the application states in workflow order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationPending, ApplicationInReview, ApplicationBackgroundCheck, ApplicationApproved, ApplicationRejected,
}

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	UserType    UserType `json:"userType"`
}

// Name returns the full name of the user.
func (u User) Name() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,password"`
	FirstName   string   `json:"firstName" validate:"required"`
	LastName    string   `json:"lastName" validate:"required"`
	PhoneNumber string   `json:"phoneNumber" validate:"required,phone"`
	UserType    UserType `json:"userType" validate:"required,usertype"`
}

type ProfileUpdate struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
}

type Message struct {
	Message string `json:"message"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PropertyAddress struct {
	Street      string       `json:"street" validate:"required"`
	City        string       `json:"city" validate:"required"`
	State       string       `json:"state" validate:"required"`
	ZipCode     string       `json:"zipCode" validate:"required"`
	Country     string       `json:"country" validate:"required"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Property struct {
	ID           string          `json:"_id"`
	OwnerID      string          `json:"ownerId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Address      PropertyAddress `json:"address"`
	Price        float64         `json:"price"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    float64         `json:"bathrooms"`
	SquareFeet   int             `json:"squareFeet"`
	Amenities    []string        `json:"amenities"`
	Images       []string        `json:"images"`
	Availability bool            `json:"availability"`
	Featured     bool            `json:"featured"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type PropertyInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Address     PropertyAddress `json:"address"`
	Price       float64         `json:"price" validate:"gt=0"`
	Bedrooms    int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms   float64         `json:"bathrooms" validate:"gte=0"`
	SquareFeet  int             `json:"squareFeet" validate:"gte=0"`
	Amenities   []string        `json:"amenities"`
	Images      []string        `json:"images"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type PropertyPage struct {
	Properties []Property `json:"properties"`
	Pagination Pagination `json:"pagination"`
}

type Employment struct {
	Employer      string  `json:"employer" validate:"required"`
	Position      string  `json:"position" validate:"required"`
	Income        float64 `json:"income" validate:"gte=1"`
	YearsEmployed float64 `json:"yearsEmployed" validate:"gte=0"`
}

type PreviousRental struct {
	HasRentedBefore         bool    `json:"hasRentedBefore"`
	PreviousLandlord        string  `json:"previousLandlord,omitempty"`
	PreviousLandlordContact string  `json:"previousLandlordContact,omitempty"`
	RentalDuration          float64 `json:"rentalDuration,omitempty"`
}

type Reference struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	Contact      string `json:"contact" validate:"required"`
}

type ApplicationForm struct {
	Employment     Employment     `json:"employment"`
	PreviousRental PreviousRental `json:"previousRental"`
	References     []Reference    `json:"references" validate:"min=1,dive"`
	AdditionalInfo string         `json:"additionalInfo"`
}

type ApplicationInput struct {
	PropertyID      string          `json:"propertyId" validate:"required"`
	IDCardURL       string          `json:"idCardUrl,omitempty"`
	ApplicationForm ApplicationForm `json:"applicationForm"`
}

type BackgroundCheckResult struct {
	Passed      bool      `json:"passed"`
	Notes       string    `json:"notes"`
	CompletedAt time.Time `json:"completedAt"`
}

type Application struct {
	ID                     string                 `json:"_id"`
	Property               PropertyRef            `json:"propertyId"`
	TenantID               string                 `json:"tenantId"`
	Status                 ApplicationStatus      `json:"status"`
	IDCardURL              string                 `json:"idCardUrl"`
	ApplicationForm        ApplicationForm        `json:"applicationForm"`
	BackgroundCheckStatus  BackgroundCheckStatus  `json:"backgroundCheckStatus"`
	BackgroundCheckResults *BackgroundCheckResult `json:"backgroundCheckResults,omitempty"`
	RejectionReason        string                 `json:"rejectionReason,omitempty"`
	CreatedAt              time.Time              `json:"createdAt"`
	UpdatedAt              time.Time              `json:"updatedAt"`
}

type BillingPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type Payment struct {
	ID                    string         `json:"_id"`
	Application           ApplicationRef `json:"applicationId"`
	Property              PropertyRef    `json:"propertyId"`
	TenantID              string         `json:"tenantId"`
	OwnerID               string         `json:"ownerId"`
	Amount                float64        `json:"amount"`
	Currency              string         `json:"currency"`
	Status                PaymentStatus  `json:"status"`
	PaymentMethod         string         `json:"paymentMethod"`
	StripePaymentIntentID string         `json:"stripePaymentIntentId"`
	StripeCustomerID      string         `json:"stripeCustomerId,omitempty"`
	BillingPeriod         BillingPeriod  `json:"billingPeriod"`
	ReceiptURL            string         `json:"receiptUrl"`
	Notes                 string         `json:"notes,omitempty"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"paymentId"`
}

type Signature struct {
	SignedAt  time.Time `json:"signedAt"`
	IPAddress string    `json:"ipAddress"`
}

type Agreement struct {
	ID                string          `json:"_id"`
	Application       ApplicationRef  `json:"applicationId"`
	Property          PropertyRef     `json:"propertyId"`
	TenantID          string          `json:"tenantId"`
	OwnerID           string          `json:"ownerId"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	Terms             string          `json:"terms"`
	TenantSignature   *Signature      `json:"tenantSignature,omitempty"`
	OwnerSignature    *Signature      `json:"ownerSignature,omitempty"`
	Status            AgreementStatus `json:"status"`
	TerminationReason string          `json:"terminationReason,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

type AgreementInput struct {
	ApplicationID string    `json:"applicationId" validate:"required"`
	StartDate     time.Time `json:"startDate" validate:"required"`
	EndDate       time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	Terms         string    `json:"terms" validate:"required"`
}

// PropertyRef is a property reference that the API sends either as plain ID or populated with
// the property itself.
type PropertyRef struct {
	ID       string
	Property *Property
}

func (r *PropertyRef) UnmarshalJSON(data []byte) error {
	return unmarshalRef(data, &r.ID, &r.Property, func(p *Property) string { return p.ID })
}

func (r PropertyRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// ApplicationRef is an application reference that the API sends either as plain ID or populated
// with the application itself.
type ApplicationRef struct {
	ID          string
	Application *Application
}

func (r *ApplicationRef) UnmarshalJSON(data []byte) error {
	return unmarshalRef(data, &r.ID, &r.Application, func(a *Application) string { return a.ID })
}

func (r ApplicationRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

func unmarshalRef[T any](data []byte, id *string, target **T, idOf func(*T) string) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, id)
	}

	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("failed to unmarshal populated reference: %w", err)
	}
	*target = value
	*id = idOf(value)
	return nil
}

// PropertyFilter narrows down the property listing. Zero values are not sent.
type PropertyFilter struct {
	City      string
	State     string
	MinPrice  float64
	MaxPrice  float64
	Bedrooms  int
	Bathrooms int
	Amenities []string
	Page      int
	Limit     int
}
