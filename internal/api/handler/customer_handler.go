package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"customer-importer/internal/api/handler/dto"
	"customer-importer/internal/domain/customer"
	"customer-importer/internal/domain/ingestion"
	"customer-importer/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

// CustomerImporter runs one bucket import.
type CustomerImporter interface {
	ImportFromBucket(ctx context.Context, bucket, fileName string) (ingestion.Result, error)
}

type CustomerHandler struct {
	service         customer.CustomerService
	importer        CustomerImporter
	lenientFailures bool
	logger          *slog.Logger
}

// NewCustomerHandler wires the customer endpoints. With lenientFailures set,
// a failed upload still answers 200 with zero records.
func NewCustomerHandler(s customer.CustomerService, importer CustomerImporter, lenientFailures bool, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if importer == nil {
		panic("customer importer cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service:         s,
		importer:        importer,
		lenientFailures: lenientFailures,
		logger:          l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// AddCustomer handles POST /customers
// @Summary Add a new customer
// @Description Stores a single customer. The id is assigned by the service and the customer is created active.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.AddCustomerRequest true "Customer details"
// @Success 200 {object} dto.Response{data=dto.CustomerResponse} "Customer successfully added"
// @Failure 400 {object} dto.ErrorResponse "Malformed body or unknown field"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers [post]
func (h *CustomerHandler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received add customer request")

	var req dto.AddCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.AddCustomer(r.Context(), req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to add customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer added successfully", slog.Int64("customerID", created.ID))
	respondSuccess(w, http.StatusOK, msgCustomerAdded, dto.NewCustomerResponse(created))
}

// GetCustomer handles GET /customers/{customerID}
// @Summary Retrieve customer details
// @Description Retrieves a single customer by id.
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.Response{data=dto.CustomerResponse} "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customers/{customerID} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	found, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, customer.ErrNotFound) && !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, msgCustomerFetched, dto.NewCustomerResponse(found))
}

// UploadCustomers handles POST /customers/upload
// @Summary Import customers from a CSV object
// @Description Fetches fileName from bucketName, validates the CSV header and stores every row in one batch. Any failure stores nothing.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.UploadCustomersRequest true "Object location"
// @Success 200 {object} dto.Response{data=dto.UploadCustomersResponse} "Customers imported"
// @Failure 400 {object} dto.ErrorResponse "Missing bucketName or fileName"
// @Failure 404 {object} dto.ErrorResponse "Object not found"
// @Failure 422 {object} dto.ErrorResponse "Header or row validation failed"
// @Failure 500 {object} dto.ErrorResponse "Batch could not be stored"
// @Failure 502 {object} dto.ErrorResponse "Object storage unavailable"
// @Router /customers/upload [post]
func (h *CustomerHandler) UploadCustomers(w http.ResponseWriter, r *http.Request) {
	var req dto.UploadCustomersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode upload request", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Upload request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	logCtx := h.logger.With(slog.String("bucket", req.BucketName), slog.String("fileName", req.FileName))
	result, err := h.importer.ImportFromBucket(r.Context(), req.BucketName, req.FileName)
	if err != nil {
		if h.lenientFailures {
			logCtx.WarnContext(r.Context(), "Import failed, answering with zero records", slog.Any("error", err))
			respondSuccess(w, http.StatusOK, msgCustomersUploaded, dto.NewUploadCustomersResponse(result))
			return
		}
		logCtx.WarnContext(r.Context(), "Import failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	logCtx.InfoContext(r.Context(), "Customers uploaded", slog.Int("totalRecords", result.TotalRecords))
	respondSuccess(w, http.StatusOK, msgCustomersUploaded, dto.NewUploadCustomersResponse(result))
}
