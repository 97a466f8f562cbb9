package dto

import (
	"strings"

	"customer-importer/internal/domain/customer"
	"customer-importer/internal/domain/ingestion"
	"customer-importer/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

// AddCustomerRequest is decoded with unknown fields rejected, so clients
// cannot supply id or status.
type AddCustomerRequest struct {
	FirstName          string              `json:"firstName" example:"Jane"`
	LastName           string              `json:"lastName" example:"Doe"`
	EmailID            string              `json:"emailId" example:"jane@x.com"`
	Address            string              `json:"address" example:"1 Main St"`
	MaxCreditLimit     decimal.NullDecimal `json:"maxCreditLimit" swaggertype:"number" example:"1000.50"`
	CurrentCreditLimit decimal.NullDecimal `json:"currentCreditLimit" swaggertype:"number" example:"200.00"`
}

func (r *AddCustomerRequest) ToDomain() *customer.Customer {
	return &customer.Customer{
		FirstName:          strings.TrimSpace(r.FirstName),
		LastName:           strings.TrimSpace(r.LastName),
		EmailID:            strings.TrimSpace(r.EmailID),
		Address:            strings.TrimSpace(r.Address),
		MaxCreditLimit:     r.MaxCreditLimit,
		CurrentCreditLimit: r.CurrentCreditLimit,
	}
}

type UploadCustomersRequest struct {
	BucketName string `json:"bucketName" example:"customer-uploads"`
	FileName   string `json:"fileName" example:"customers.csv"`
}

// Validate trims both fields in place and requires them to be non-empty.
func (r *UploadCustomersRequest) Validate() error {
	r.BucketName = strings.TrimSpace(r.BucketName)
	r.FileName = strings.TrimSpace(r.FileName)

	if r.BucketName == "" {
		return apperrors.NewValidationError("bucketName", "bucketName is required")
	}
	if r.FileName == "" {
		return apperrors.NewValidationError("fileName", "fileName is required")
	}
	return nil
}

type CustomerResponse struct {
	ID                 int64               `json:"id" example:"1"`
	FirstName          string              `json:"firstName" example:"Jane"`
	LastName           string              `json:"lastName" example:"Doe"`
	EmailID            string              `json:"emailId" example:"jane@x.com"`
	Address            string              `json:"address" example:"1 Main St"`
	MaxCreditLimit     decimal.NullDecimal `json:"maxCreditLimit" swaggertype:"number" example:"1000.50"`
	CurrentCreditLimit decimal.NullDecimal `json:"currentCreditLimit" swaggertype:"number" example:"200.00"`
	Status             *bool               `json:"status" example:"true"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:                 cust.ID,
		FirstName:          cust.FirstName,
		LastName:           cust.LastName,
		EmailID:            cust.EmailID,
		Address:            cust.Address,
		MaxCreditLimit:     cust.MaxCreditLimit,
		CurrentCreditLimit: cust.CurrentCreditLimit,
		Status:             cust.Status,
	}
}

type UploadCustomersResponse struct {
	ImportID     string `json:"importId,omitempty" example:"4f1c2a8e-8c3b-4a57-9d5e-0b1f2c3d4e5f"`
	FileName     string `json:"fileName" example:"customers.csv"`
	TotalRecords int    `json:"totalRecords" example:"1"`
}

func NewUploadCustomersResponse(result ingestion.Result) UploadCustomersResponse {
	return UploadCustomersResponse{
		ImportID:     result.ImportID,
		FileName:     result.FileName,
		TotalRecords: result.TotalRecords,
	}
}

// Response is the success envelope shared by every endpoint.
type Response struct {
	StatusCode int    `json:"statusCode" example:"200"`
	Message    string `json:"message" example:"Successfully fetched customer"`
	Data       any    `json:"data"`
}

type ErrorResponse struct {
	StatusCode   int    `json:"statusCode" example:"422"`
	ErrorCode    string `json:"errorCode" example:"HEADER_VALIDATION_FAILED"`
	ErrorMessage string `json:"errorMessage" example:"unexpected CSV header"`
	Data         any    `json:"data"`
}
