package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"customer-importer/internal/api/handler/dto"
	"customer-importer/internal/domain/customer"
	"customer-importer/internal/domain/ingestion"
	"customer-importer/internal/pkg/apperrors"
)

const (
	msgCustomerAdded     = "Successfully added new customer"
	msgCustomerFetched   = "Successfully fetched customer"
	msgCustomersUploaded = "Successfully uploaded customer details"
	msgInternalError     = "Oops! Something went wrong."
)

const (
	codeInvalidArgument       = "INVALID_ARGUMENT"
	codeValidationFailed      = "VALIDATION_FAILED"
	codeNotFound              = "NOT_FOUND"
	codeAlreadyExists         = "ALREADY_EXISTS"
	codeStorageObjectNotFound = "STORAGE_OBJECT_NOT_FOUND"
	codeStorageFetchFailed    = "STORAGE_FETCH_FAILED"
	codeHeaderValidation      = "HEADER_VALIDATION_FAILED"
	codeRowParseFailed        = "ROW_PARSE_FAILED"
	codePersistenceFailed     = "PERSISTENCE_FAILED"
	codeInternalError         = "INTERNAL_ERROR"
)

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"statusCode":500,"errorCode":"INTERNAL_ERROR","errorMessage":"Oops! Something went wrong.","data":null}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondSuccess(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, status, dto.Response{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}

func respondError(w http.ResponseWriter, err error) {
	resp := errorResponseFor(err)
	respondJSON(w, resp.StatusCode, resp)
}

func errorResponseFor(err error) dto.ErrorResponse {
	status, code, message := http.StatusInternalServerError, codeInternalError, msgInternalError
	var data any
	var validationError *apperrors.ValidationError
	var importErr *ingestion.ImportError

	switch {
	case errors.As(err, &importErr):
		message = importErr.Detail
		switch {
		case errors.Is(err, ingestion.ErrObjectNotFound):
			status, code = http.StatusNotFound, codeStorageObjectNotFound
		case errors.Is(importErr.Kind, ingestion.ErrStorageFetch):
			status, code = http.StatusBadGateway, codeStorageFetchFailed
		case errors.Is(importErr.Kind, ingestion.ErrHeaderValidation):
			status, code, data = http.StatusUnprocessableEntity, codeHeaderValidation, importErr.Fields
		case errors.Is(importErr.Kind, ingestion.ErrRowParse):
			status, code = http.StatusUnprocessableEntity, codeRowParseFailed
		case errors.Is(importErr.Kind, ingestion.ErrPersistence):
			code = codePersistenceFailed
		default:
			message = msgInternalError
		}
	case errors.Is(err, customer.ErrNotFound), errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, codeNotFound, "Customer not found."
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, code, message = http.StatusConflict, codeAlreadyExists, "Customer already exists."
	case errors.As(err, &validationError):
		status, code, message = http.StatusBadRequest, codeValidationFailed, validationError.Message
		data = map[string]string{"field": validationError.Field}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, code, message = http.StatusBadRequest, codeInvalidArgument, err.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	return dto.ErrorResponse{
		StatusCode:   status,
		ErrorCode:    code,
		ErrorMessage: message,
		Data:         data,
	}
}
