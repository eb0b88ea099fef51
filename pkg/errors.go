package pkg

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var ExposeErrorDetails = false

func init() {
	if gin.DebugMode == gin.Mode() || gin.TestMode == gin.Mode() {
		ExposeErrorDetails = true
	}
}

// Reusable errors
var (
	SqlError            = errors.New("sql error")
	ErrModelNotLoaded   = errors.New("model not loaded")
	ErrEmptyRequestBody = errors.New("request body is empty")
	ErrNotJSONObject    = errors.New("request body is not a JSON object")
)

// ErrorCode defines a standardized error code
type ErrorCode struct {
	Code    string
	Status  int
	Message string // default message
}

var (
	// Generic app
	ErrInvalidInputCode = ErrorCode{Code: "APP_INVALID_INPUT", Status: http.StatusBadRequest, Message: "invalid input"}
	ErrServerCode       = ErrorCode{Code: "APP_INTERNAL", Status: http.StatusInternalServerError, Message: "internal server error"}
	ErrRateLimitedCode  = ErrorCode{Code: "RATE_LIMITED", Status: http.StatusTooManyRequests, Message: "too many requests"}

	// Prediction pipeline
	ErrModelUnavailableCode = ErrorCode{Code: "MODEL_UNAVAILABLE", Status: http.StatusInternalServerError, Message: "model not loaded"}
	ErrPredictionCode       = ErrorCode{Code: "PREDICTION_ERROR", Status: http.StatusInternalServerError, Message: "prediction error"}

	// Storage layer
	ErrStorageCode = ErrorCode{Code: "STORAGE_ERROR", Status: http.StatusInternalServerError, Message: "database error"}
)

type AppError struct {
	Code    ErrorCode
	Message string // public-facing message
	Cause   error  // internal cause (wrapped)
}

func (e AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}
func (e AppError) Unwrap() error { return e.Cause }

func NewAppError(code ErrorCode, msg string, cause error) error {
	return AppError{Code: code, Message: msg, Cause: cause}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var appErr AppError
	return errors.As(err, &appErr) && appErr.Code.Code == code.Code
}

// ErrorResponse defines the standardized error response format
type ErrorResponse struct {
	Status  int    `json:"-"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// ToErrorResponse converts an error into an ErrorResponse, logging details and optionally exposing error messages.
// If the error is not an AppError, it is converted to a generic 500 error.
func ToErrorResponse(logger *zap.Logger, traceID string, err error) ErrorResponse {
	var appErr AppError
	if errors.As(err, &appErr) {
		resp := ErrorResponse{
			Status: appErr.Code.Status,
			Code:   appErr.Code.Code,
			Error:  appErr.Message,
		}
		if appErr.Code.Status >= http.StatusInternalServerError {
			logger.Error("application_error", zap.String(TraceId, traceID), zap.String("code", appErr.Code.Code), zap.Error(err))
		} else {
			logger.Warn("request_rejected", zap.String(TraceId, traceID), zap.String("code", appErr.Code.Code), zap.Error(err))
		}
		if ExposeErrorDetails {
			resp.Details = err.Error()
		}
		return resp
	}
	// Unknown error : 500
	resp := ErrorResponse{
		Status: ErrServerCode.Status,
		Code:   ErrServerCode.Code,
		Error:  ErrServerCode.Message,
	}
	logger.Error("application_error", zap.String(TraceId, traceID), zap.Error(err))
	if ExposeErrorDetails {
		resp.Details = err.Error()
	}
	return resp
}

// HandleSQLError maps pg errors -> AppError with the storage code
func HandleSQLError(traceId string, logger *zap.Logger, err error) error {
	var pgErr *pgconn.PgError
	if errors.Is(err, pgx.ErrNoRows) {
		logger.Warn("sql_error_no_rows", zap.String(TraceId, traceId))
		return NewAppError(ErrStorageCode, "database error: no rows", err)
	}
	if !errors.As(err, &pgErr) {
		logger.Error("sql_error_unknown", zap.String(TraceId, traceId), zap.Error(err))
		return NewAppError(ErrStorageCode, "database error: "+err.Error(), err)
	}

	// Log rich pg error context
	logger.Error("sql_error",
		zap.String(TraceId, traceId),
		zap.String("code", pgErr.Code),
		zap.String("message", pgErr.Message),
		zap.String("detail", pgErr.Detail),
		zap.String("schema", pgErr.SchemaName),
		zap.String("table", pgErr.TableName),
		zap.String("column", pgErr.ColumnName),
		zap.String("constraint", pgErr.ConstraintName),
	)

	switch pgErr.Code {
	case "22001": // string_data_right_truncation
		return NewAppError(ErrStorageCode, "database error: value too long for column", SqlError)
	case "22003": // numeric_value_out_of_range
		return NewAppError(ErrStorageCode, "database error: numeric value out of range", SqlError)
	case "42P01": // undefined_table
		return NewAppError(ErrStorageCode, "database error: table not initialized", SqlError)
	default:
		return NewAppError(ErrStorageCode, "database error: "+pgErr.Message, SqlError)
	}
}

// HandleSQLiteError maps sqlite3 errors -> AppError with the storage code
func HandleSQLiteError(traceId string, logger *zap.Logger, err error) error {
	var liteErr sqlite3.Error
	if !errors.As(err, &liteErr) {
		logger.Error("sql_error_unknown", zap.String(TraceId, traceId), zap.Error(err))
		return NewAppError(ErrStorageCode, "database error: "+err.Error(), err)
	}

	logger.Error("sql_error",
		zap.String(TraceId, traceId),
		zap.Int("code", int(liteErr.Code)),
		zap.Int("extended_code", int(liteErr.ExtendedCode)),
		zap.String("message", liteErr.Error()),
	)

	switch liteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return NewAppError(ErrStorageCode, "database error: database is locked", SqlError)
	case sqlite3.ErrReadonly, sqlite3.ErrCantOpen, sqlite3.ErrPerm:
		return NewAppError(ErrStorageCode, "database error: database is not writable", SqlError)
	case sqlite3.ErrFull:
		return NewAppError(ErrStorageCode, "database error: disk full", SqlError)
	default:
		return NewAppError(ErrStorageCode, "database error: "+liteErr.Error(), SqlError)
	}
}
